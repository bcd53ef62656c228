package usecase

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/utils/logging"
)

// MemoryStore owns every persona's durable MemoryState. It is a write-through
// cache over the repository: the in-memory map is authoritative for the
// process lifetime, and persistence failures are logged but never abort a
// turn. All mutations go through this store and are serialized by its mutex.
type MemoryStore struct {
	mu     sync.Mutex
	states map[int]*model.MemoryState
	repo   interfaces.MemoryStateRepository
	tuning *model.Tuning
	rng    *rand.Rand
}

// NewMemoryStore loads all persisted states into the cache. An unreadable
// backend falls back to a fresh population with a logged warning.
func NewMemoryStore(ctx context.Context, repo interfaces.MemoryStateRepository, tuning *model.Tuning, rng *rand.Rand) *MemoryStore {
	s := &MemoryStore{
		states: make(map[int]*model.MemoryState),
		repo:   repo,
		tuning: tuning,
		rng:    rng,
	}

	if repo != nil {
		states, err := repo.List(ctx)
		if err != nil {
			logging.From(ctx).Warn("failed to load persisted memory states, starting fresh", "error", err)
		} else {
			for _, state := range states {
				s.states[state.PersonaID] = state
			}
			logging.From(ctx).Info("loaded persona memory", "personas", len(states))
		}
	}

	return s
}

// getLocked returns the live state for a persona, lazily creating and
// persisting a default one. Caller must hold s.mu.
func (s *MemoryStore) getLocked(ctx context.Context, personaID int) *model.MemoryState {
	if state, ok := s.states[personaID]; ok {
		return state
	}

	trust := 100
	if s.tuning.RandomTrustSeed && s.rng != nil {
		trust = 40 + s.rng.IntN(61)
	}
	state := model.NewMemoryState(personaID, trust)
	s.states[personaID] = state
	s.persistLocked(ctx, state)
	return state
}

// persistLocked writes a state through to the repository. Failures are logged
// and swallowed; the cache remains authoritative.
func (s *MemoryStore) persistLocked(ctx context.Context, state *model.MemoryState) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Put(ctx, state); err != nil {
		logging.From(ctx).Error("failed to persist memory state",
			"persona_id", state.PersonaID, "error", err)
	}
}

// Get returns a copy of a persona's state, creating a default one if absent
func (s *MemoryStore) Get(ctx context.Context, personaID int) *model.MemoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, personaID).Clone()
}

// RecordVisit appends a Visit, updates lifetime counters and price anchors,
// and runs the experience state machine.
func (s *MemoryStore) RecordVisit(ctx context.Context, personaID, turn int, decision types.Decision, price float64, quality int, emotion types.Emotion, reasoning string) {
	decision = decision.Normalize()
	emotion = emotion.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getLocked(ctx, personaID)

	state.VisitHistory = append(state.VisitHistory, model.Visit{
		Turn:      turn,
		Decision:  decision,
		Price:     price,
		Quality:   quality,
		Emotion:   emotion,
		Reasoning: reasoning,
		Timestamp: time.Now().UTC(),
	})
	if excess := len(state.VisitHistory) - s.tuning.HistoryLimit; excess > 0 {
		state.VisitHistory = state.VisitHistory[excess:]
	}

	state.Lifetime.TotalVisits++
	switch decision {
	case types.DecisionBuy:
		state.Lifetime.TotalBuys++
		state.Lifetime.TotalSpent += price
		state.Anchors.LastPricePaid = price
	case types.DecisionSkip:
		state.Lifetime.TotalSkips++
	case types.DecisionSwitch:
		state.Lifetime.TotalSwitches++
		state.Competitor.DiscoveredCompetitor = true
		switchTurn := turn
		state.Competitor.LastSwitchTurn = &switchTurn
	}

	s.updateAnchorsLocked(state, price)
	s.runExperienceMachineLocked(state, turn, decision, quality, emotion)

	s.persistLocked(ctx, state)
}

// updateAnchorsLocked maintains the running price extrema and the immutable
// initial price.
func (s *MemoryStore) updateAnchorsLocked(state *model.MemoryState, price float64) {
	a := &state.Anchors
	if !a.HasInitialPrice {
		a.InitialPrice = price
		a.HasInitialPrice = true
		a.LowestPriceSeen = price
		a.HighestPriceSeen = price
		return
	}
	if price < a.LowestPriceSeen {
		a.LowestPriceSeen = price
	}
	if price > a.HighestPriceSeen {
		a.HighestPriceSeen = price
	}
}

// runExperienceMachineLocked applies the grudge/habit transitions for one visit
func (s *MemoryStore) runExperienceMachineLocked(state *model.MemoryState, turn int, decision types.Decision, quality int, emotion types.Emotion) {
	exp := &state.Experience

	switch {
	case emotion.IsNegative():
		exp.ConsecutiveFrustrations++
		exp.ConsecutiveBuys = 0
		state.Lifetime.TimesDisappointed++

		if exp.ConsecutiveFrustrations == s.tuning.LastChanceAt && !state.Flags.IsOnLastChance {
			state.Flags.IsOnLastChance = true
			lastChanceTurn := turn
			state.Flags.LastChanceGivenTurn = &lastChanceTurn
		}
		if exp.ConsecutiveFrustrations >= s.tuning.PermanentlyGoneAt {
			state.Flags.IsPermanentlyGone = true
		}

	case emotion.IsPositive():
		exp.ConsecutiveFrustrations = 0
		state.Lifetime.TimesDelighted++
		if state.Flags.IsOnLastChance {
			state.Flags.IsOnLastChance = false
			state.Flags.LastChanceGivenTurn = nil
		}
		if decision == types.DecisionBuy {
			exp.ConsecutiveBuys++
			if exp.ConsecutiveBuys >= s.tuning.RoutineAt {
				exp.HasRoutine = true
			}
		}
		if quality >= s.tuning.PeakQualityFloor {
			if exp.PeakExperience == nil || quality > exp.PeakExperience.Quality {
				exp.PeakExperience = &model.PeakExperience{
					Turn:    turn,
					Quality: quality,
					Emotion: emotion,
				}
			}
		}

	default:
		exp.ConsecutiveFrustrations = 0
	}
}

// UpdateTrust applies the emotion's trust delta with asymmetric recovery:
// losses land at full magnitude, gains are divided before application.
// Returns the resulting trust score.
func (s *MemoryStore) UpdateTrust(ctx context.Context, personaID int, emotion types.Emotion, reason string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getLocked(ctx, personaID)

	delta := s.tuning.TrustDelta(emotion)
	if delta > 0 {
		delta /= s.tuning.RecoveryDivisor
	}

	trust := state.TrustScore + delta
	if trust < 0 {
		trust = 0
	}
	if trust > 100 {
		trust = 100
	}
	state.TrustScore = trust

	logging.From(ctx).Debug("trust updated",
		"persona_id", personaID, "emotion", emotion, "delta", delta,
		"trust", trust, "reason", reason)

	s.persistLocked(ctx, state)
	return trust
}

// PricePerception classifies a price against the persona's anchors with loss
// aversion: increases over the initial price are weighted more heavily than
// decreases before thresholding.
func (s *MemoryStore) PricePerception(ctx context.Context, personaID int, price float64) model.PricePerceptionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricePerceptionLocked(ctx, personaID, price)
}

func (s *MemoryStore) pricePerceptionLocked(ctx context.Context, personaID int, price float64) model.PricePerceptionResult {
	state := s.getLocked(ctx, personaID)
	a := state.Anchors

	if !a.HasInitialPrice || a.InitialPrice <= 0 {
		return model.PricePerceptionResult{Perception: types.PerceptionUnknown}
	}

	delta := (price - a.InitialPrice) / a.InitialPrice
	weighted := delta
	if delta > 0 {
		weighted = delta * s.tuning.LossAversionWeight
	}

	var perception types.PricePerception
	switch {
	case math.Abs(weighted) < s.tuning.FairBand:
		perception = types.PerceptionFair
	case weighted > s.tuning.OutrageousThreshold:
		perception = types.PerceptionOutrageous
	case weighted > 0:
		perception = types.PerceptionExpensive
	case weighted < -s.tuning.CheapThreshold:
		perception = types.PerceptionCheap
	default:
		perception = types.PerceptionFair
	}

	result := model.PricePerceptionResult{
		Perception: perception,
		Magnitude:  weighted,
		VsInitial:  delta,
	}
	if a.LastPricePaid > 0 {
		result.VsLast = (price - a.LastPricePaid) / a.LastPricePaid
	}
	if a.LowestPriceSeen > 0 {
		result.VsLowest = (price - a.LowestPriceSeen) / a.LowestPriceSeen
	}
	return result
}

// CheckHabitBreakage reports whether the current price would break the
// persona's routine, without touching the state. Returns the flat
// extra-frustration bonus to apply to this turn's evaluation, and whether
// the routine would break. The break itself is committed in the finalize
// pass via CommitHabitBreak so that a failed evaluation leaves no trace.
func (s *MemoryStore) CheckHabitBreakage(ctx context.Context, personaID int, price float64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getLocked(ctx, personaID)
	if !state.Experience.HasRoutine {
		return 0, false
	}

	perception := s.pricePerceptionLocked(ctx, personaID, price)
	if !perception.Perception.FeelsOverpriced() {
		return 0, false
	}

	return s.tuning.HabitBreakFrustration, true
}

// CommitHabitBreak records a routine break staged by CheckHabitBreakage
func (s *MemoryStore) CommitHabitBreak(ctx context.Context, personaID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getLocked(ctx, personaID)
	if !state.Experience.HasRoutine {
		return
	}

	state.Experience.HasRoutine = false
	state.Experience.RoutineBrokenCount++
	s.persistLocked(ctx, state)

	logging.From(ctx).Debug("routine broken by price", "persona_id", personaID)
}

// DecisionContext assembles the read-only composite handed to the oracle
func (s *MemoryStore) DecisionContext(ctx context.Context, personaID int, price float64) *model.DecisionContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getLocked(ctx, personaID)
	return &model.DecisionContext{
		TrustScore:              state.TrustScore,
		RecentVisits:            state.RecentVisits(3),
		Perception:              s.pricePerceptionLocked(ctx, personaID, price),
		HasRoutine:              state.Experience.HasRoutine,
		ConsecutiveFrustrations: state.Experience.ConsecutiveFrustrations,
		IsOnLastChance:          state.Flags.IsOnLastChance,
		IsPermanentlyGone:       state.Flags.IsPermanentlyGone,
		PeakExperience:          clonePeak(state.Experience.PeakExperience),
		Competitor:              state.Competitor,
		Lifetime:                state.Lifetime,
	}
}

func clonePeak(peak *model.PeakExperience) *model.PeakExperience {
	if peak == nil {
		return nil
	}
	cp := *peak
	return &cp
}

// Snapshot returns a copy of one persona's state without creating it
func (s *MemoryStore) Snapshot(personaID int) (*model.MemoryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[personaID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no memory for persona", goerr.V("persona_id", personaID))
	}
	return state.Clone(), nil
}

// SnapshotAll returns copies of every tracked state
func (s *MemoryStore) SnapshotAll() []*model.MemoryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.MemoryState, 0, len(s.states))
	for _, state := range s.states {
		out = append(out, state.Clone())
	}
	return out
}

// ResetAll clears the cache and the persisted population
func (s *MemoryStore) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states = make(map[int]*model.MemoryState)
	if s.repo != nil {
		if err := s.repo.Reset(ctx); err != nil {
			return goerr.Wrap(err, "failed to reset persisted memory states")
		}
	}
	return nil
}
