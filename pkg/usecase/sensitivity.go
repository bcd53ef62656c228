package usecase

import (
	"time"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// EffectiveSensitivity combines a persona's base price sensitivity with the
// turn context and memory into this turn's effective sensitivity in [0,1].
// Modifiers are additive and applied in a fixed order.
func EffectiveSensitivity(p *model.Persona, tc *model.TurnContext, mem *model.MemoryState) float64 {
	s := p.BasePriceSensitivity

	if tc.Financial.Tightness == model.BudgetTight {
		s += 0.10
	}
	if tc.Financial.IsPayday {
		s -= 0.10
	}
	if tc.Financial.HadRecentExpense {
		s += 0.05
	}

	if tc.Emotional.Mood.IsBad() {
		s += 0.10
	}
	if tc.Emotional.Mood.IsGood() {
		s -= 0.05
	}

	if tc.Temporal.IsRushing && p.ValuesSpeed {
		s -= 0.15
	}
	if tc.Temporal.DayOfWeek == time.Friday && tc.Temporal.TimeOfDay == types.TimeAfternoon {
		s -= 0.05
	}

	// Low trust makes every price feel like a gouge; the penalties stack
	if mem.TrustScore < 60 {
		s += 0.15
	}
	if mem.TrustScore < 30 {
		s += 0.25
	}

	return clamp01(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
