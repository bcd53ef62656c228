package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
)

type turnRepository struct {
	mu      sync.RWMutex
	results []*model.TurnResult
}

func newTurnRepository() *turnRepository {
	return &turnRepository{}
}

func (r *turnRepository) Put(ctx context.Context, result *model.TurnResult) error {
	if result.ID == "" {
		return goerr.New("turn result ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *result
	r.results = append(r.results, &cp)
	return nil
}

func (r *turnRepository) List(ctx context.Context, limit int) ([]*model.TurnResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.results)
	if limit <= 0 || limit > n {
		limit = n
	}

	// Newest first
	out := make([]*model.TurnResult, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		cp := *r.results[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *turnRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = nil
	return nil
}
