package interfaces

import "context"

// Repository defines the interface for data persistence
type Repository interface {
	Memory() MemoryStateRepository
	Turn() TurnRepository

	// Close releases backend resources
	Close(ctx context.Context) error
}
