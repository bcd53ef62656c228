package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

func validPersona() *model.Persona {
	return &model.Persona{
		ID:                    1,
		Name:                  "test",
		Archetype:             types.ArchetypeStudent,
		BasePriceSensitivity:  0.5,
		BrandLoyalty:          0.5,
		SocialInfluenceWeight: 0.5,
		QualityThreshold:      0.5,
		RiskTolerance:         0.5,
		MoodVariance:          0.3,
		BudgetRange:           model.BudgetRange{Min: 5, Max: 15},
		WeekdayPreference:     0.5,
		PreferredTimes:        []types.TimeOfDay{types.TimeMorning},
	}
}

func TestPersonaValidate(t *testing.T) {
	gt.NoError(t, validPersona().Validate())

	t.Run("rejects out-of-range traits", func(t *testing.T) {
		p := validPersona()
		p.BrandLoyalty = 1.5
		gt.Value(t, p.Validate()).NotNil()
	})

	t.Run("rejects inverted budget range", func(t *testing.T) {
		p := validPersona()
		p.BudgetRange = model.BudgetRange{Min: 20, Max: 10}
		gt.Value(t, p.Validate()).NotNil()
	})

	t.Run("rejects unknown archetype", func(t *testing.T) {
		p := validPersona()
		p.Archetype = "wizard"
		gt.Value(t, p.Validate()).NotNil()
	})

	t.Run("requires preferred times", func(t *testing.T) {
		p := validPersona()
		p.PreferredTimes = nil
		gt.Value(t, p.Validate()).NotNil()
	})
}

func TestTurnInputValidate(t *testing.T) {
	gt.NoError(t, (&model.TurnInput{Turn: 1, Price: 10, Quality: 5}).Validate())
	gt.Value(t, (&model.TurnInput{Turn: 1, Price: 0, Quality: 5}).Validate()).NotNil()
	gt.Value(t, (&model.TurnInput{Turn: 1, Price: 10, Quality: 0}).Validate()).NotNil()
	gt.Value(t, (&model.TurnInput{Turn: 1, Price: 10, Quality: 11}).Validate()).NotNil()
	gt.Value(t, (&model.TurnInput{Turn: -1, Price: 10, Quality: 5}).Validate()).NotNil()
}

func TestMemoryStateClone(t *testing.T) {
	turn := 3
	state := model.NewMemoryState(1, 70)
	state.VisitHistory = []model.Visit{{Turn: 1, Decision: types.DecisionBuy, Price: 10}}
	state.Experience.PeakExperience = &model.PeakExperience{Turn: 1, Quality: 9}
	state.Competitor.LastSwitchTurn = &turn
	state.Flags.LastChanceGivenTurn = &turn

	clone := state.Clone()
	clone.TrustScore = 0
	clone.VisitHistory[0].Price = 999
	clone.Experience.PeakExperience.Quality = 1
	*clone.Competitor.LastSwitchTurn = 99

	gt.Value(t, state.TrustScore).Equal(70)
	gt.Value(t, state.VisitHistory[0].Price).Equal(10.0)
	gt.Value(t, state.Experience.PeakExperience.Quality).Equal(9)
	gt.Value(t, *state.Competitor.LastSwitchTurn).Equal(3)
}

func TestRecentVisits(t *testing.T) {
	state := model.NewMemoryState(1, 70)
	for turn := 1; turn <= 5; turn++ {
		state.VisitHistory = append(state.VisitHistory, model.Visit{Turn: turn})
	}

	recent := state.RecentVisits(3)
	gt.Array(t, recent).Length(3)
	gt.Value(t, recent[0].Turn).Equal(3)
	gt.Value(t, recent[2].Turn).Equal(5)

	gt.Array(t, state.RecentVisits(10)).Length(5)
	gt.Value(t, state.RecentVisits(0)).Nil()
}

func TestOracleDecisionNormalize(t *testing.T) {
	d := &model.OracleDecision{
		Decision:        "acquire",
		Emotion:         "elated",
		PricePerception: "steep",
	}
	d.Normalize()
	gt.Value(t, d.Decision).Equal(types.DecisionSkip)
	gt.Value(t, d.Emotion).Equal(types.EmotionNeutral)
	gt.Value(t, d.PricePerception).Equal(types.PerceptionUnknown)
}

func TestTuningValidate(t *testing.T) {
	gt.NoError(t, model.DefaultTuning().Validate())

	t.Run("rejects non-escalating grudge thresholds", func(t *testing.T) {
		tuning := model.DefaultTuning()
		tuning.PermanentlyGoneAt = tuning.LastChanceAt
		gt.Value(t, tuning.Validate()).NotNil()
	})

	t.Run("rejects loss aversion under one", func(t *testing.T) {
		tuning := model.DefaultTuning()
		tuning.LossAversionWeight = 0.5
		gt.Value(t, tuning.Validate()).NotNil()
	})
}
