package usecase

import (
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// Aggregate reduces one turn's full result set plus the current memory
// population into the summary handed to callers. Rates are computed over the
// whole population including error stand-ins, so a degraded oracle shows up
// as a skip-heavy turn rather than a shrunken one.
func Aggregate(results []model.PersonaResult, states []*model.MemoryState) model.Aggregates {
	agg := model.Aggregates{
		Total:        len(results),
		ByArchetype:  make(map[types.Archetype]model.ArchetypeTally),
		ByEmotion:    make(map[types.Emotion]int),
		ByPerception: make(map[types.PricePerception]int),
		TrustTiers:   make(map[types.TrustTier]int),
	}

	for _, r := range results {
		if r.Error {
			agg.Errors++
		}

		tally := agg.ByArchetype[r.Archetype]
		switch r.Decision {
		case types.DecisionBuy:
			agg.Buys++
			tally.Buys++
		case types.DecisionSwitch:
			agg.Switches++
			tally.Switches++
		default:
			agg.Skips++
			tally.Skips++
		}
		agg.ByArchetype[r.Archetype] = tally

		agg.ByEmotion[r.Emotion]++
		if r.PricePerception != types.PerceptionUnknown {
			agg.ByPerception[r.PricePerception]++
		}
	}

	if agg.Total > 0 {
		n := float64(agg.Total)
		agg.BuyRate = float64(agg.Buys) / n
		agg.SkipRate = float64(agg.Skips) / n
		agg.SwitchRate = float64(agg.Switches) / n
	}

	trustSum := 0
	for _, state := range states {
		trustSum += state.TrustScore
		agg.TrustTiers[types.TrustTierOf(state.TrustScore)]++
		if state.Flags.IsPermanentlyGone {
			agg.PermanentlyGone++
		}
		if state.Flags.IsOnLastChance {
			agg.OnLastChance++
		}
	}
	if len(states) > 0 {
		agg.AverageTrust = float64(trustSum) / float64(len(states))
	}

	return agg
}
