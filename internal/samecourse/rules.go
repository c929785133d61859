package samecourse

import (
	"strings"

	"catalogid/internal/catalog"
	"catalogid/internal/overrides"
)

// Rules are the static tables and thresholds the partitioner consults.
type Rules struct {
	MaxTitleDistance       float64
	MaxDescriptionDistance float64
	MinTitleMatchLen       int
	MinDescriptionMatchLen int
	GenericTitles          map[string]struct{}
	Codes                  catalog.CodeNormalizer
	Overrides              []overrides.Spec
	SummerSuffix           string
}

// DefaultRules returns the thresholds used when no configuration is given,
// with the built-in override specs and no department renames.
func DefaultRules() Rules {
	r := Rules{
		MaxTitleDistance:       0.25,
		MaxDescriptionDistance: 0.25,
		MinTitleMatchLen:       8,
		MinDescriptionMatchLen: 32,
		Codes:                  catalog.NewCodeNormalizer(nil),
		SummerSuffix:           catalog.DefaultSummerSuffix,
	}
	r.SetGenericTitles([]string{
		"directed reading", "directed readings", "directed research",
		"independent study", "independent research", "individual research",
		"research", "senior essay", "senior project", "senior thesis",
		"special topics", "tutorial",
	})
	r.Overrides = overrides.Defaults()
	for i := range r.Overrides {
		r.Overrides[i].Normalize(r.NormalizeCode)
	}
	return r
}

// SetGenericTitles replaces the generic-title denylist.
func (r *Rules) SetGenericTitles(titles []string) {
	r.GenericTitles = make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if t = strings.ToLower(strings.Join(strings.Fields(t), " ")); t != "" {
			r.GenericTitles[t] = struct{}{}
		}
	}
}

// IsGeneric reports whether a normalized title is on the denylist.
func (r Rules) IsGeneric(title string) bool {
	_, ok := r.GenericTitles[title]
	return ok
}

// NormalizeCode normalizes a "SUBJECT NUMBER" code string.
func (r Rules) NormalizeCode(code string) string {
	fields := strings.Fields(code)
	if len(fields) == 0 {
		return ""
	}
	return r.Codes.Normalize(fields[0], strings.Join(fields[1:], ""))
}
