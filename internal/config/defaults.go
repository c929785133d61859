package config

const (
	defaultInputDir               = "~/.local/share/catalogid/parsed_courses"
	defaultCacheDir               = "~/.local/share/catalogid/id_cache"
	defaultOutputDir              = "~/.local/share/catalogid/importer_dumps"
	defaultLogDir                 = "~/.local/share/catalogid/logs"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultMaxTitleDistance       = 0.25
	defaultMaxDescriptionDistance = 0.25
	defaultMinTitleMatchLen       = 8
	defaultMinDescriptionMatchLen = 32
	defaultSummerTermSuffix       = "2"
	defaultOverridesPath          = "~/.config/catalogid/overrides.json"
)

// Independent-study style titles. Two offerings sharing one of these titles
// and an instructor are not evidence of being the same course.
var defaultGenericTitles = []string{
	"directed reading",
	"directed readings",
	"directed research",
	"independent study",
	"independent research",
	"individual research",
	"research",
	"senior essay",
	"senior project",
	"senior thesis",
	"special topics",
	"tutorial",
}

var defaultDepartmentRenames = map[string]string{
	"WGST": "WGSS",
}

var defaultOutputFormats = []string{"csv", "sqlite"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	renames := make(map[string]string, len(defaultDepartmentRenames))
	for k, v := range defaultDepartmentRenames {
		renames[k] = v
	}
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			CacheDir:  defaultCacheDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Identity: Identity{
			MaxTitleDistance:       defaultMaxTitleDistance,
			MaxDescriptionDistance: defaultMaxDescriptionDistance,
			MinTitleMatchLen:       defaultMinTitleMatchLen,
			MinDescriptionMatchLen: defaultMinDescriptionMatchLen,
			GenericTitles:          append([]string(nil), defaultGenericTitles...),
			DepartmentRenames:      renames,
			OverridesPath:          defaultOverridesPath,
			SummerTermSuffix:       defaultSummerTermSuffix,
		},
		Output: Output{
			Formats: append([]string(nil), defaultOutputFormats...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
