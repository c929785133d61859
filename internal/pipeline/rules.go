package pipeline

import (
	"log/slog"

	"catalogid/internal/catalog"
	"catalogid/internal/config"
	"catalogid/internal/invariants"
	"catalogid/internal/overrides"
	"catalogid/internal/samecourse"
)

// RulesFromConfig converts the identity section into the partitioner's
// typed tables, loading the overrides file once.
func RulesFromConfig(cfg *config.Config, logger *slog.Logger) (samecourse.Rules, error) {
	id := cfg.Identity
	rules := samecourse.Rules{
		MaxTitleDistance:       id.MaxTitleDistance,
		MaxDescriptionDistance: id.MaxDescriptionDistance,
		MinTitleMatchLen:       id.MinTitleMatchLen,
		MinDescriptionMatchLen: id.MinDescriptionMatchLen,
		Codes:                  catalog.NewCodeNormalizer(id.DepartmentRenames),
		SummerSuffix:           id.SummerTermSuffix,
	}
	rules.SetGenericTitles(id.GenericTitles)

	specs, err := overrides.NewCatalog(id.OverridesPath, logger).Specs(rules.NormalizeCode)
	if err != nil {
		return samecourse.Rules{}, invariants.Wrap(invariants.ErrConfiguration, "pipeline", "load overrides", id.OverridesPath, err)
	}
	rules.Overrides = specs
	return rules, nil
}
