package oracle

import (
	"context"
	"sync"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// Mock is a deterministic DecisionOracle for tests and offline runs. It
// answers from a scripted decision function, or a trust-and-price heuristic
// when no script is set, and records every request it receives.
type Mock struct {
	mu sync.Mutex

	// DecideFn overrides the default heuristic when set
	DecideFn func(req *interfaces.OracleRequest) (*model.OracleDecision, error)

	// FailFor lists persona IDs whose calls return an error
	FailFor map[int]error

	// Requests records every request in arrival order
	Requests []*interfaces.OracleRequest
}

var _ interfaces.DecisionOracle = &Mock{}

// NewMock creates a mock oracle with the default heuristic
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Decide(ctx context.Context, req *interfaces.OracleRequest) (*model.OracleDecision, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	failErr := m.FailFor[req.Persona.ID]
	fn := m.DecideFn
	m.mu.Unlock()

	if failErr != nil {
		return nil, failErr
	}
	if fn != nil {
		return fn(req)
	}
	return heuristicDecision(req), nil
}

// heuristicDecision is a cheap stand-in for the LLM: buy when the price feels
// acceptable for the persona's sensitivity and trust, otherwise skip, and
// switch when trust has collapsed and a competitor is known.
func heuristicDecision(req *interfaces.OracleRequest) *model.OracleDecision {
	trust := 100
	perception := types.PerceptionUnknown
	knowsCompetitor := false
	if req.Decision != nil {
		trust = req.Decision.TrustScore
		perception = req.Decision.Perception.Perception
		knowsCompetitor = req.Decision.Competitor.DiscoveredCompetitor
	}

	switch {
	case trust < 30 && knowsCompetitor:
		return &model.OracleDecision{
			Decision:        types.DecisionSwitch,
			Reasoning:       "I have had enough of this place, the competitor treats me better.",
			Emotion:         types.EmotionAngry,
			PricePerception: perception,
		}
	case perception == types.PerceptionOutrageous:
		return &model.OracleDecision{
			Decision:        types.DecisionSkip,
			Reasoning:       "That price is absurd compared to what I used to pay.",
			Emotion:         types.EmotionBetrayed,
			PricePerception: perception,
		}
	case perception == types.PerceptionExpensive && req.Sensitivity > 0.6:
		return &model.OracleDecision{
			Decision:        types.DecisionSkip,
			Reasoning:       "Too pricey for me today.",
			Emotion:         types.EmotionFrustrated,
			PricePerception: perception,
		}
	case perception == types.PerceptionCheap:
		return &model.OracleDecision{
			Decision:        types.DecisionBuy,
			Reasoning:       "A bargain, happy to grab it.",
			Emotion:         types.EmotionDelighted,
			PricePerception: perception,
		}
	default:
		return &model.OracleDecision{
			Decision:        types.DecisionBuy,
			Reasoning:       "Seems fair enough, my usual choice.",
			Emotion:         types.EmotionSatisfied,
			PricePerception: perception,
		}
	}
}
