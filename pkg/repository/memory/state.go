package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
)

type stateRepository struct {
	mu     sync.RWMutex
	states map[int]*model.MemoryState
}

func newStateRepository() *stateRepository {
	return &stateRepository{
		states: make(map[int]*model.MemoryState),
	}
}

func (r *stateRepository) Put(ctx context.Context, state *model.MemoryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := state.Clone()
	cp.UpdatedAt = time.Now().UTC()
	r.states[cp.PersonaID] = cp
	return nil
}

func (r *stateRepository) Get(ctx context.Context, personaID int) (*model.MemoryState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[personaID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "memory state not found", goerr.V("persona_id", personaID))
	}

	// Return a copy to prevent external modification
	return state.Clone(), nil
}

func (r *stateRepository) List(ctx context.Context) ([]*model.MemoryState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]*model.MemoryState, 0, len(r.states))
	for _, state := range r.states {
		states = append(states, state.Clone())
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].PersonaID < states[j].PersonaID
	})

	return states, nil
}

func (r *stateRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states = make(map[int]*model.MemoryState)
	return nil
}
