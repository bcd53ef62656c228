package oracle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/service/oracle"
)

func mockRequest(trust int, perception types.PricePerception, sensitivity float64) *interfaces.OracleRequest {
	return &interfaces.OracleRequest{
		Persona: &model.Persona{ID: 1, Name: "test", Archetype: types.ArchetypeRegular},
		Input:   &model.TurnInput{Turn: 1, Price: 10, Quality: 7},
		Decision: &model.DecisionContext{
			TrustScore: trust,
			Perception: model.PricePerceptionResult{Perception: perception},
		},
		Sensitivity: sensitivity,
	}
}

func TestMockHeuristic(t *testing.T) {
	ctx := context.Background()
	mock := oracle.NewMock()

	t.Run("fair price buys", func(t *testing.T) {
		d, err := mock.Decide(ctx, mockRequest(80, types.PerceptionFair, 0.5))
		gt.NoError(t, err).Required()
		gt.Value(t, d.Decision).Equal(types.DecisionBuy)
	})

	t.Run("outrageous price feels like betrayal", func(t *testing.T) {
		d, err := mock.Decide(ctx, mockRequest(80, types.PerceptionOutrageous, 0.5))
		gt.NoError(t, err).Required()
		gt.Value(t, d.Decision).Equal(types.DecisionSkip)
		gt.Value(t, d.Emotion).Equal(types.EmotionBetrayed)
	})

	t.Run("expensive price skips only when sensitive", func(t *testing.T) {
		d, err := mock.Decide(ctx, mockRequest(80, types.PerceptionExpensive, 0.7))
		gt.NoError(t, err).Required()
		gt.Value(t, d.Decision).Equal(types.DecisionSkip)

		d, err = mock.Decide(ctx, mockRequest(80, types.PerceptionExpensive, 0.3))
		gt.NoError(t, err).Required()
		gt.Value(t, d.Decision).Equal(types.DecisionBuy)
	})

	t.Run("collapsed trust switches to a known competitor", func(t *testing.T) {
		req := mockRequest(20, types.PerceptionFair, 0.5)
		req.Decision.Competitor.DiscoveredCompetitor = true
		d, err := mock.Decide(ctx, req)
		gt.NoError(t, err).Required()
		gt.Value(t, d.Decision).Equal(types.DecisionSwitch)
	})
}

func TestMockScriptingAndRecording(t *testing.T) {
	ctx := context.Background()
	mock := oracle.NewMock()
	mock.FailFor = map[int]error{1: errors.New("scripted failure")}

	_, err := mock.Decide(ctx, mockRequest(80, types.PerceptionFair, 0.5))
	gt.Value(t, err).NotNil()
	gt.Array(t, mock.Requests).Length(1)

	mock.DecideFn = func(req *interfaces.OracleRequest) (*model.OracleDecision, error) {
		return &model.OracleDecision{Decision: types.DecisionSwitch}, nil
	}
	req := mockRequest(80, types.PerceptionFair, 0.5)
	req.Persona.ID = 2
	d, err := mock.Decide(ctx, req)
	gt.NoError(t, err).Required()
	gt.Value(t, d.Decision).Equal(types.DecisionSwitch)
	gt.Array(t, mock.Requests).Length(2)
}
