package config

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// Catalog holds CLI flags for the persona population
type Catalog struct {
	path string
}

// catalogFile is the TOML shape of a persona catalog
type catalogFile struct {
	Personas []model.Persona `toml:"persona"`
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Persona catalog TOML file (empty uses the built-in population)",
			Sources:     cli.EnvVars("CROWDSIM_CATALOG"),
			Destination: &c.path,
		},
	}
}

// Configure loads the persona catalog from the configured TOML file, or
// returns the built-in population when no file is given. Personas are
// validated and IDs must be unique.
func (c *Catalog) Configure() ([]*model.Persona, error) {
	var personas []*model.Persona

	if c.path == "" {
		personas = DefaultCatalog()
	} else {
		data, err := os.ReadFile(c.path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", c.path))
		}

		var file catalogFile
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse catalog file", goerr.V("path", c.path))
		}
		for i := range file.Personas {
			personas = append(personas, &file.Personas[i])
		}
	}

	if len(personas) == 0 {
		return nil, goerr.New("persona catalog is empty", goerr.V("path", c.path))
	}

	seen := make(map[int]bool, len(personas))
	for _, p := range personas {
		if err := p.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid persona in catalog", goerr.V("path", c.path))
		}
		if seen[p.ID] {
			return nil, goerr.New("duplicate persona ID in catalog", goerr.V("id", p.ID))
		}
		seen[p.ID] = true
	}

	return personas, nil
}

// archetypeTemplate seeds the built-in population for one archetype
type archetypeTemplate struct {
	archetype     types.Archetype
	count         int
	sensitivity   float64
	loyalty       float64
	social        float64
	quality       float64
	risk          float64
	moodVariance  float64
	budget        model.BudgetRange
	weekdayPref   float64
	times         []types.TimeOfDay
	valuesSpeed   bool
	valuesQuality bool
}

var builtinTemplates = []archetypeTemplate{
	{
		archetype: types.ArchetypeStudent, count: 5,
		sensitivity: 0.8, loyalty: 0.3, social: 0.7, quality: 0.4, risk: 0.6, moodVariance: 0.5,
		budget: model.BudgetRange{Min: 5, Max: 15}, weekdayPref: 0.5,
		times: []types.TimeOfDay{types.TimeAfternoon, types.TimeEvening}, valuesSpeed: true,
	},
	{
		archetype: types.ArchetypeProfessional, count: 5,
		sensitivity: 0.4, loyalty: 0.6, social: 0.3, quality: 0.7, risk: 0.4, moodVariance: 0.3,
		budget: model.BudgetRange{Min: 15, Max: 40}, weekdayPref: 0.8,
		times: []types.TimeOfDay{types.TimeMorning}, valuesSpeed: true, valuesQuality: true,
	},
	{
		archetype: types.ArchetypeParent, count: 4,
		sensitivity: 0.6, loyalty: 0.5, social: 0.4, quality: 0.6, risk: 0.3, moodVariance: 0.4,
		budget: model.BudgetRange{Min: 10, Max: 30}, weekdayPref: 0.4,
		times: []types.TimeOfDay{types.TimeMorning, types.TimeAfternoon}, valuesQuality: true,
	},
	{
		archetype: types.ArchetypeRetiree, count: 3,
		sensitivity: 0.7, loyalty: 0.8, social: 0.2, quality: 0.5, risk: 0.2, moodVariance: 0.2,
		budget: model.BudgetRange{Min: 8, Max: 20}, weekdayPref: 0.6,
		times: []types.TimeOfDay{types.TimeMorning}, valuesQuality: true,
	},
	{
		archetype: types.ArchetypeFreelancer, count: 3,
		sensitivity: 0.6, loyalty: 0.4, social: 0.5, quality: 0.6, risk: 0.7, moodVariance: 0.6,
		budget: model.BudgetRange{Min: 8, Max: 25}, weekdayPref: 0.5,
		times: []types.TimeOfDay{types.TimeAfternoon, types.TimeNight},
	},
	{
		archetype: types.ArchetypeTourist, count: 2,
		sensitivity: 0.3, loyalty: 0.1, social: 0.8, quality: 0.5, risk: 0.8, moodVariance: 0.7,
		budget: model.BudgetRange{Min: 10, Max: 50}, weekdayPref: 0.3,
		times: []types.TimeOfDay{types.TimeAfternoon, types.TimeEvening},
	},
	{
		archetype: types.ArchetypeRegular, count: 3,
		sensitivity: 0.5, loyalty: 0.9, social: 0.2, quality: 0.6, risk: 0.3, moodVariance: 0.3,
		budget: model.BudgetRange{Min: 10, Max: 25}, weekdayPref: 0.7,
		times: []types.TimeOfDay{types.TimeMorning, types.TimeEvening}, valuesQuality: true,
	},
}

// DefaultCatalog builds the built-in 25-persona population. Each archetype
// template is stamped out with small deterministic trait spreads so personas
// of the same archetype do not behave identically.
func DefaultCatalog() []*model.Persona {
	var personas []*model.Persona
	id := 1

	for _, tpl := range builtinTemplates {
		for i := 0; i < tpl.count; i++ {
			spread := float64(i)*0.05 - float64(tpl.count-1)*0.025
			personas = append(personas, &model.Persona{
				ID:                    id,
				Name:                  fmt.Sprintf("%s-%02d", tpl.archetype, i+1),
				Archetype:             tpl.archetype,
				BasePriceSensitivity:  clampUnit(tpl.sensitivity + spread),
				BrandLoyalty:          clampUnit(tpl.loyalty - spread),
				SocialInfluenceWeight: clampUnit(tpl.social + spread),
				QualityThreshold:      clampUnit(tpl.quality),
				RiskTolerance:         clampUnit(tpl.risk + spread),
				MoodVariance:          clampUnit(tpl.moodVariance),
				BudgetRange:           tpl.budget,
				WeekdayPreference:     clampUnit(tpl.weekdayPref),
				PreferredTimes:        tpl.times,
				ValuesSpeed:           tpl.valuesSpeed,
				ValuesQuality:         tpl.valuesQuality,
			})
			id++
		}
	}

	return personas
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
