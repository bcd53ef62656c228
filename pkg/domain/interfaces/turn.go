package interfaces

import (
	"context"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
)

// TurnRepository defines the interface for turn-history persistence
type TurnRepository interface {
	// Put saves a completed turn result
	Put(ctx context.Context, result *model.TurnResult) error

	// List retrieves up to limit recent turn results, newest first
	List(ctx context.Context, limit int) ([]*model.TurnResult, error)

	// Reset removes all persisted turn results
	Reset(ctx context.Context) error
}
