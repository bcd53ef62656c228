package usecase

import (
	"context"
	"math/rand/v2"

	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
)

// Simulator is the top-level use case: it owns the persona catalog, the
// memory store, and the decision oracle, and exposes turn execution plus the
// read/reset operations the HTTP controller and CLI build on.
type Simulator struct {
	catalog  []*model.Persona
	store    *MemoryStore
	oracle   interfaces.DecisionOracle
	turnRepo interfaces.TurnRepository
	tuning   *model.Tuning
	rng      *rand.Rand
}

type Option func(*Simulator)

// WithTuning overrides the default policy constants
func WithTuning(tuning *model.Tuning) Option {
	return func(uc *Simulator) {
		uc.tuning = tuning
	}
}

// WithSeed fixes the master random source for reproducible runs
func WithSeed(seed uint64) Option {
	return func(uc *Simulator) {
		uc.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// New builds a Simulator over the given catalog, repository, and oracle
func New(ctx context.Context, catalog []*model.Persona, repo interfaces.Repository, oracle interfaces.DecisionOracle, opts ...Option) (*Simulator, error) {
	uc := &Simulator{
		catalog: catalog,
		oracle:  oracle,
		tuning:  model.DefaultTuning(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(uc)
	}

	if err := uc.tuning.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid tuning")
	}
	for _, persona := range catalog {
		if err := persona.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid persona", goerr.V("persona_id", persona.ID))
		}
	}
	if oracle == nil {
		return nil, goerr.New("decision oracle is required")
	}

	var memRepo interfaces.MemoryStateRepository
	if repo != nil {
		memRepo = repo.Memory()
		uc.turnRepo = repo.Turn()
	}
	uc.store = NewMemoryStore(ctx, memRepo, uc.tuning, uc.rng)

	return uc, nil
}

// Catalog returns the persona population
func (uc *Simulator) Catalog() []*model.Persona {
	return uc.catalog
}

// PersonaMemory returns a copy of one persona's memory state
func (uc *Simulator) PersonaMemory(personaID int) (*model.MemoryState, error) {
	return uc.store.Snapshot(personaID)
}

// TurnHistory returns up to limit most recent turn results, newest first
func (uc *Simulator) TurnHistory(ctx context.Context, limit int) ([]*model.TurnResult, error) {
	if uc.turnRepo == nil {
		return nil, nil
	}
	return uc.turnRepo.List(ctx, limit)
}

// Reset wipes all persona memory and turn history
func (uc *Simulator) Reset(ctx context.Context) error {
	if err := uc.store.ResetAll(ctx); err != nil {
		return err
	}
	if uc.turnRepo != nil {
		if err := uc.turnRepo.Reset(ctx); err != nil {
			return goerr.Wrap(err, "failed to reset turn history")
		}
	}
	return nil
}
