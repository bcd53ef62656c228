package interfaces

import (
	"context"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
)

// OracleRequest carries everything the decision oracle may consider for one
// persona's evaluation in one turn.
type OracleRequest struct {
	Persona     *model.Persona
	Input       *model.TurnInput
	TurnContext *model.TurnContext
	Decision    *model.DecisionContext
	Sensitivity float64
}

// DecisionOracle is the external capability that decides how a persona reacts
// to the current offer. Implementations may call out over the network; callers
// must tolerate failures and malformed responses by substituting Skip.
type DecisionOracle interface {
	Decide(ctx context.Context, req *OracleRequest) (*model.OracleDecision, error)
}
