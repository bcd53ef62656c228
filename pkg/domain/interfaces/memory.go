package interfaces

import (
	"context"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
)

// MemoryStateRepository defines the interface for MemoryState persistence.
// The memory store uses it as a write-through backing: every state mutation is
// saved, and the whole population is loaded once at startup.
type MemoryStateRepository interface {
	// Put saves a persona's state, overwriting any existing record
	Put(ctx context.Context, state *model.MemoryState) error

	// Get retrieves a persona's state. Returns ErrNotFound when absent.
	Get(ctx context.Context, personaID int) (*model.MemoryState, error)

	// List retrieves all persisted states
	List(ctx context.Context) ([]*model.MemoryState, error)

	// Reset removes all persisted states
	Reset(ctx context.Context) error
}
