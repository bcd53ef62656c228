package usecase_test

import (
	"math"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/usecase"
)

func neutralContext() *model.TurnContext {
	return &model.TurnContext{
		Financial: model.FinancialContext{Tightness: model.BudgetComfortable},
		Temporal:  model.TemporalContext{DayOfWeek: time.Wednesday, TimeOfDay: types.TimeMorning},
		Emotional: model.EmotionalContext{Mood: types.MoodNeutral},
	}
}

func trusting(trust int) *model.MemoryState {
	return model.NewMemoryState(1, trust)
}

func TestEffectiveSensitivityBaseline(t *testing.T) {
	p := testPersona(1)
	got := usecase.EffectiveSensitivity(p, neutralContext(), trusting(100))
	gt.Value(t, got).Equal(p.BasePriceSensitivity)
}

func TestEffectiveSensitivityModifiers(t *testing.T) {
	p := testPersona(1) // base 0.5

	t.Run("tight budget", func(t *testing.T) {
		tc := neutralContext()
		tc.Financial.Tightness = model.BudgetTight
		got := usecase.EffectiveSensitivity(p, tc, trusting(100))
		gt.Bool(t, math.Abs(got-0.6) < 1e-9).True()
	})

	t.Run("payday relief", func(t *testing.T) {
		tc := neutralContext()
		tc.Financial.IsPayday = true
		got := usecase.EffectiveSensitivity(p, tc, trusting(100))
		gt.Bool(t, math.Abs(got-0.4) < 1e-9).True()
	})

	t.Run("recent expense", func(t *testing.T) {
		tc := neutralContext()
		tc.Financial.HadRecentExpense = true
		got := usecase.EffectiveSensitivity(p, tc, trusting(100))
		gt.Bool(t, math.Abs(got-0.55) < 1e-9).True()
	})

	t.Run("bad mood", func(t *testing.T) {
		tc := neutralContext()
		tc.Emotional.Mood = types.MoodAwful
		got := usecase.EffectiveSensitivity(p, tc, trusting(100))
		gt.Bool(t, math.Abs(got-0.6) < 1e-9).True()
	})

	t.Run("good mood", func(t *testing.T) {
		tc := neutralContext()
		tc.Emotional.Mood = types.MoodGreat
		got := usecase.EffectiveSensitivity(p, tc, trusting(100))
		gt.Bool(t, math.Abs(got-0.45) < 1e-9).True()
	})

	t.Run("rushing only matters to the speed-minded", func(t *testing.T) {
		tc := neutralContext()
		tc.Temporal.IsRushing = true
		got := usecase.EffectiveSensitivity(p, tc, trusting(100))
		gt.Value(t, got).Equal(0.5)

		speedy := testPersona(2)
		speedy.ValuesSpeed = true
		got = usecase.EffectiveSensitivity(speedy, tc, trusting(100))
		gt.Bool(t, math.Abs(got-0.35) < 1e-9).True()
	})

	t.Run("friday afternoon glow", func(t *testing.T) {
		tc := neutralContext()
		tc.Temporal.DayOfWeek = time.Friday
		tc.Temporal.TimeOfDay = types.TimeAfternoon
		got := usecase.EffectiveSensitivity(p, tc, trusting(100))
		gt.Bool(t, math.Abs(got-0.45) < 1e-9).True()
	})

	t.Run("low trust stacks", func(t *testing.T) {
		got := usecase.EffectiveSensitivity(p, neutralContext(), trusting(59))
		gt.Bool(t, math.Abs(got-0.65) < 1e-9).True()

		got = usecase.EffectiveSensitivity(p, neutralContext(), trusting(29))
		gt.Bool(t, math.Abs(got-0.9) < 1e-9).True()
	})
}

func TestEffectiveSensitivityClamped(t *testing.T) {
	p := testPersona(1)
	p.BasePriceSensitivity = 0.95

	tc := neutralContext()
	tc.Financial.Tightness = model.BudgetTight
	tc.Financial.HadRecentExpense = true
	tc.Emotional.Mood = types.MoodAwful

	got := usecase.EffectiveSensitivity(p, tc, trusting(10))
	gt.Value(t, got).Equal(1.0)

	cheap := testPersona(2)
	cheap.BasePriceSensitivity = 0.0
	cheap.ValuesSpeed = true
	relaxed := neutralContext()
	relaxed.Financial.IsPayday = true
	relaxed.Temporal.IsRushing = true
	relaxed.Emotional.Mood = types.MoodGreat

	got = usecase.EffectiveSensitivity(cheap, relaxed, trusting(100))
	gt.Value(t, got).Equal(0.0)
}
