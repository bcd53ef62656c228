package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// BudgetRange is the min/max budget a persona may bring to a turn
type BudgetRange struct {
	Min float64 `toml:"min" json:"min"`
	Max float64 `toml:"max" json:"max"`
}

// Span returns the width of the range
func (b BudgetRange) Span() float64 {
	return b.Max - b.Min
}

// Persona is an immutable synthetic consumer profile loaded from the catalog
type Persona struct {
	ID        int             `toml:"id" json:"id"`
	Name      string          `toml:"name" json:"name"`
	Archetype types.Archetype `toml:"archetype" json:"archetype"`

	BasePriceSensitivity  float64 `toml:"base_price_sensitivity" json:"basePriceSensitivity"`
	BrandLoyalty          float64 `toml:"brand_loyalty" json:"brandLoyalty"`
	SocialInfluenceWeight float64 `toml:"social_influence_weight" json:"socialInfluenceWeight"`
	QualityThreshold      float64 `toml:"quality_threshold" json:"qualityThreshold"`
	RiskTolerance         float64 `toml:"risk_tolerance" json:"riskTolerance"`
	MoodVariance          float64 `toml:"mood_variance" json:"moodVariance"`

	BudgetRange       BudgetRange       `toml:"budget_range" json:"budgetRange"`
	WeekdayPreference float64           `toml:"weekday_preference" json:"weekdayPreference"`
	PreferredTimes    []types.TimeOfDay `toml:"preferred_times" json:"preferredTimes"`

	ValuesSpeed   bool `toml:"values_speed" json:"valuesSpeed"`
	ValuesQuality bool `toml:"values_quality" json:"valuesQuality"`
}

// Validate checks the persona's trait scalars and structural fields
func (p *Persona) Validate() error {
	if p.ID <= 0 {
		return goerr.New("persona ID must be positive", goerr.V("id", p.ID))
	}
	if p.Name == "" {
		return goerr.New("persona name is required", goerr.V("id", p.ID))
	}
	if err := p.Archetype.Validate(); err != nil {
		return goerr.Wrap(err, "invalid persona archetype", goerr.V("id", p.ID))
	}

	unitScalars := []struct {
		name  string
		value float64
	}{
		{"base_price_sensitivity", p.BasePriceSensitivity},
		{"brand_loyalty", p.BrandLoyalty},
		{"social_influence_weight", p.SocialInfluenceWeight},
		{"quality_threshold", p.QualityThreshold},
		{"risk_tolerance", p.RiskTolerance},
		{"mood_variance", p.MoodVariance},
		{"weekday_preference", p.WeekdayPreference},
	}
	for _, s := range unitScalars {
		if s.value < 0 || s.value > 1 {
			return goerr.New("persona trait must be in [0,1]",
				goerr.V("id", p.ID), goerr.V("trait", s.name), goerr.V("value", s.value))
		}
	}

	if p.BudgetRange.Min < 0 || p.BudgetRange.Max < p.BudgetRange.Min {
		return goerr.New("invalid budget range",
			goerr.V("id", p.ID), goerr.V("min", p.BudgetRange.Min), goerr.V("max", p.BudgetRange.Max))
	}
	if len(p.PreferredTimes) == 0 {
		return goerr.New("persona must have at least one preferred time", goerr.V("id", p.ID))
	}
	for _, tod := range p.PreferredTimes {
		if err := tod.Validate(); err != nil {
			return goerr.Wrap(err, "invalid preferred time", goerr.V("id", p.ID))
		}
	}

	return nil
}
