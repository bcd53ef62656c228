package usecase

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/utils/async"
	"github.com/crowd-lab/crowdsim/pkg/utils/logging"
)

// RunTurn drives one simulation turn: the population is shuffled, split into
// fixed-size batches, and evaluated batch by batch. Personas within a batch
// run concurrently; batches run strictly sequentially so that the social
// pressure applied to batch N derives only from batches 1..N-1. Memory writes
// happen in a single finalize pass after every oracle call has completed.
func (uc *Simulator) RunTurn(ctx context.Context, input *model.TurnInput) (*model.TurnResult, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid turn input")
	}
	if len(uc.catalog) == 0 {
		return nil, goerr.New("persona catalog is empty")
	}

	startedAt := time.Now().UTC()
	logger := logging.From(ctx)
	logger.Info("running turn",
		"turn", input.Turn, "price", input.Price, "quality", input.Quality,
		"personas", len(uc.catalog), "batch_size", uc.tuning.BatchSize)

	// Shuffle to keep archetype clustering from biasing momentum
	order := uc.rng.Perm(len(uc.catalog))

	var allResults []model.PersonaResult
	momentum := model.Momentum{Mood: types.CrowdMoodNeutral}

	batchSize := uc.tuning.BatchSize
	for batchStart, batchNum := 0, 0; batchStart < len(order); batchStart, batchNum = batchStart+batchSize, batchNum+1 {
		batchEnd := min(batchStart+batchSize, len(order))
		batch := order[batchStart:batchEnd]

		results := make([]model.PersonaResult, len(batch))

		// Seeds are drawn sequentially so a fixed master seed reproduces
		// every persona's context regardless of goroutine scheduling.
		seeds := make([]uint64, len(batch))
		for i := range seeds {
			seeds[i] = uc.rng.Uint64()
		}

		eg, egCtx := errgroup.WithContext(ctx)
		for i, catalogIdx := range batch {
			persona := uc.catalog[catalogIdx]
			seed := seeds[i]
			slot := &results[i]
			eg.Go(func() error {
				*slot = uc.evaluatePersona(egCtx, persona, input, momentum, batchNum, seed)
				// Oracle failures are isolated per persona, never propagated
				return nil
			})
		}
		// The group never returns an error; Wait is the batch barrier
		_ = eg.Wait()

		allResults = append(allResults, results...)
		momentum = ComputeMomentum(allResults)

		logger.Debug("batch complete",
			"turn", input.Turn, "batch", batchNum,
			"leaving", momentum.Leaving, "staying", momentum.Staying, "mood", momentum.Mood)
	}

	// Finalize pass: fold non-error results into memory, serialized per store
	errors := 0
	for _, r := range allResults {
		if r.Error {
			errors++
			continue
		}
		if r.RoutineBroken {
			uc.store.CommitHabitBreak(ctx, r.PersonaID)
		}
		uc.store.RecordVisit(ctx, r.PersonaID, input.Turn, r.Decision, input.Price, input.Quality, r.Emotion, r.Reasoning)
		uc.store.UpdateTrust(ctx, r.PersonaID, r.Emotion, r.Reasoning)
	}

	result := &model.TurnResult{
		ID:          ulid.Make().String(),
		Turn:        input.Turn,
		Input:       *input,
		Results:     allResults,
		Momentum:    momentum,
		MarketMood:  MarketMoodLabel(momentum),
		Aggregates:  Aggregate(allResults, uc.store.SnapshotAll()),
		Success:     true,
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
	}

	if errors == len(allResults) {
		result.Success = false
		result.FailureReason = "decision oracle unavailable for every persona"
		logger.Error("turn failed", "turn", input.Turn, "reason", result.FailureReason)
	}

	if uc.turnRepo != nil {
		// Turn history is best effort; a persistence failure never aborts a turn
		turnCopy := *result
		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := uc.turnRepo.Put(ctx, &turnCopy); err != nil {
				return goerr.Wrap(err, "failed to persist turn history", goerr.V("id", turnCopy.ID))
			}
			return nil
		})
	}

	logger.Info("turn complete",
		"turn", input.Turn, "market_mood", result.MarketMood,
		"buys", result.Aggregates.Buys, "skips", result.Aggregates.Skips,
		"switches", result.Aggregates.Switches, "errors", errors)

	return result, nil
}

// evaluatePersona runs the read-side of one persona's turn: context
// generation, sensitivity, social pressure, and the oracle call. Nothing is
// written to memory here; a staged routine break is carried on the result
// and committed in the finalize pass.
func (uc *Simulator) evaluatePersona(ctx context.Context, persona *model.Persona, input *model.TurnInput, momentum model.Momentum, batchNum int, seed uint64) model.PersonaResult {
	rng := rand.New(rand.NewPCG(seed, seed))

	result := model.PersonaResult{
		PersonaID: persona.ID,
		Name:      persona.Name,
		Archetype: persona.Archetype,
		Batch:     batchNum,
	}

	mem := uc.store.Get(ctx, persona.ID)
	turnCtx := GenerateContext(persona, mem, input.Turn, rng)

	base := EffectiveSensitivity(persona, turnCtx, mem)
	sensitivity := ApplySocialPressure(persona, base, momentum, uc.tuning)
	result.Sensitivity = sensitivity

	bonus, broken := uc.store.CheckHabitBreakage(ctx, persona.ID, input.Price)
	result.RoutineBroken = broken

	decisionCtx := uc.store.DecisionContext(ctx, persona.ID, input.Price)
	decisionCtx.FrustrationBonus = bonus
	decisionCtx.RoutineBroken = broken
	if broken {
		// The break is committed after the oracle call succeeds; the oracle
		// already sees the routine as gone.
		decisionCtx.HasRoutine = false
	}

	decision, err := uc.oracle.Decide(ctx, &interfaces.OracleRequest{
		Persona:     persona,
		Input:       input,
		TurnContext: turnCtx,
		Decision:    decisionCtx,
		Sensitivity: sensitivity,
	})
	if err != nil {
		logging.From(ctx).Warn("oracle call failed, substituting skip",
			"persona_id", persona.ID, "turn", input.Turn, "error", err)
		result.Decision = types.DecisionSkip
		result.Emotion = types.EmotionNeutral
		result.PricePerception = decisionCtx.Perception.Perception
		result.Reasoning = "could not reach a decision this turn"
		result.Error = true
		result.ErrorMessage = err.Error()
		return result
	}

	decision.Normalize()
	result.Decision = decision.Decision
	result.Emotion = decision.Emotion
	result.PricePerception = decision.PricePerception
	result.Reasoning = decision.Reasoning
	return result
}
