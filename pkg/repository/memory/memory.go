package memory

import (
	"context"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory repository backend for development and tests
type Memory struct {
	state *stateRepository
	turn  *turnRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository
func New() *Memory {
	return &Memory{
		state: newStateRepository(),
		turn:  newTurnRepository(),
	}
}

func (m *Memory) Memory() interfaces.MemoryStateRepository {
	return m.state
}

func (m *Memory) Turn() interfaces.TurnRepository {
	return m.turn
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}
