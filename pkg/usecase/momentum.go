package usecase

import (
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// ComputeMomentum reduces the decisions seen so far in a turn into the
// aggregate social signal. Error stand-ins count as skips: a visible empty
// hand is a leaving signal regardless of why. Empty input yields all-zero
// momentum.
func ComputeMomentum(results []model.PersonaResult) model.Momentum {
	total := len(results)
	if total == 0 {
		return model.Momentum{Mood: types.CrowdMoodNeutral}
	}

	var buys, skips, switches int
	for _, r := range results {
		switch r.Decision {
		case types.DecisionBuy:
			buys++
		case types.DecisionSwitch:
			switches++
		default:
			skips++
		}
	}

	m := model.Momentum{
		Leaving:   float64(skips+switches) / float64(total),
		Staying:   float64(buys) / float64(total),
		Switching: float64(switches) / float64(total),
		Sample:    total,
	}

	switch {
	case m.Leaving > 0.5:
		m.Mood = types.CrowdMoodMassExit
	case m.Staying > 0.6:
		m.Mood = types.CrowdMoodMassAdoption
	default:
		m.Mood = types.CrowdMoodNeutral
	}

	return m
}

// ApplySocialPressure adjusts a persona's sensitivity by the current momentum,
// scaled by the persona's own susceptibility to social signal. A visible
// exodus makes prices feel riskier; a visible crowd staying makes them feel
// safer.
func ApplySocialPressure(p *model.Persona, base float64, m model.Momentum, tuning *model.Tuning) float64 {
	switch {
	case m.Leaving > tuning.LeavingPressureFloor:
		return clamp01(base + (m.Leaving-tuning.LeavingPressureFloor)*p.SocialInfluenceWeight*tuning.LeavingPressureScale)
	case m.Staying > tuning.StayingPressureFloor:
		return clamp01(base - (m.Staying-tuning.StayingPressureFloor)*p.SocialInfluenceWeight*tuning.StayingPressureScale)
	default:
		return base
	}
}

// MarketMoodLabel maps a turn's final momentum to the reporting-level market
// mood. Rules are evaluated in this fixed order; the first match wins.
func MarketMoodLabel(m model.Momentum) types.MarketMood {
	switch {
	case m.Leaving >= 0.7:
		return types.MarketMoodBrandCrisis
	case m.Leaving >= 0.5:
		return types.MarketMoodMassExodus
	case m.Leaving >= 0.3:
		return types.MarketMoodResentful
	case m.Staying >= 0.8:
		return types.MarketMoodViralHype
	case m.Staying >= 0.6:
		return types.MarketMoodFOMOWave
	case m.Staying >= 0.55:
		return types.MarketMoodOptimistic
	case m.Leaving >= 0.55:
		return types.MarketMoodSkeptical
	default:
		return types.MarketMoodBalanced
	}
}
