package usecase_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/repository/memory"
	"github.com/crowd-lab/crowdsim/pkg/usecase"
)

func fixedTuning() *model.Tuning {
	tuning := model.DefaultTuning()
	tuning.RandomTrustSeed = false
	return tuning
}

func newTestStore(t *testing.T) *usecase.MemoryStore {
	t.Helper()
	return usecase.NewMemoryStore(context.Background(), memory.New().Memory(), fixedTuning(), nil)
}

func TestPriceAnchoring(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.RecordVisit(ctx, 1, 1, types.DecisionBuy, 10.0, 7, types.EmotionSatisfied, "fine")
	store.RecordVisit(ctx, 1, 2, types.DecisionBuy, 12.0, 7, types.EmotionNeutral, "ok")
	store.RecordVisit(ctx, 1, 3, types.DecisionBuy, 8.0, 7, types.EmotionDelighted, "cheap")

	state, err := store.Snapshot(1)
	gt.NoError(t, err).Required()

	// The first observed price is the permanent anchor
	gt.Value(t, state.Anchors.InitialPrice).Equal(10.0)
	gt.Bool(t, state.Anchors.HasInitialPrice).True()
	gt.Value(t, state.Anchors.LowestPriceSeen).Equal(8.0)
	gt.Value(t, state.Anchors.HighestPriceSeen).Equal(12.0)
	gt.Value(t, state.Anchors.LastPricePaid).Equal(8.0)
}

func TestPricePerceptionLossAversion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.RecordVisit(ctx, 1, 1, types.DecisionBuy, 10.0, 7, types.EmotionSatisfied, "baseline")

	cases := []struct {
		price float64
		want  types.PricePerception
	}{
		{10.00, types.PerceptionFair},
		{10.20, types.PerceptionFair},
		{9.50, types.PerceptionFair},
		{9.00, types.PerceptionFair},
		{8.00, types.PerceptionCheap},
		{10.60, types.PerceptionExpensive},
		{12.00, types.PerceptionOutrageous},
	}
	for _, tc := range cases {
		got := store.PricePerception(ctx, 1, tc.price)
		gt.Value(t, got.Perception).Equal(tc.want)
	}
}

func TestPricePerceptionUnknownBeforeFirstVisit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got := store.PricePerception(ctx, 99, 10.0)
	gt.Value(t, got.Perception).Equal(types.PerceptionUnknown)
}

func TestTrustAsymmetry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// One betrayal drops trust by the full delta
	trust := store.UpdateTrust(ctx, 1, types.EmotionBetrayed, "price gouge")
	gt.Value(t, trust).Equal(60)

	// Recovery comes at a third of the rate
	trust = store.UpdateTrust(ctx, 1, types.EmotionSatisfied, "made up for it")
	gt.Value(t, trust).Equal(61)

	trust = store.UpdateTrust(ctx, 1, types.EmotionLoyal, "great visit")
	gt.Value(t, trust).Equal(66)
}

func TestTrustClamped(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		store.UpdateTrust(ctx, 1, types.EmotionBetrayed, "repeat offense")
	}
	state, err := store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Value(t, state.TrustScore).Equal(0)

	for i := 0; i < 200; i++ {
		store.UpdateTrust(ctx, 1, types.EmotionLoyal, "redemption arc")
	}
	state, err = store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Value(t, state.TrustScore).Equal(100)
}

func TestGrudgeEscalation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.RecordVisit(ctx, 1, 1, types.DecisionSkip, 10.0, 5, types.EmotionFrustrated, "meh")
	state, err := store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Flags.IsOnLastChance).False()

	store.RecordVisit(ctx, 1, 2, types.DecisionSkip, 10.0, 5, types.EmotionAngry, "worse")
	state, err = store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Flags.IsOnLastChance).True()
	gt.Value(t, *state.Flags.LastChanceGivenTurn).Equal(2)
	gt.Bool(t, state.Flags.IsPermanentlyGone).False()

	store.RecordVisit(ctx, 1, 3, types.DecisionSkip, 10.0, 5, types.EmotionBetrayed, "done")
	state, err = store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Flags.IsPermanentlyGone).True()
}

func TestForgivenessClearsLastChanceButNotGone(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.RecordVisit(ctx, 1, 1, types.DecisionSkip, 10.0, 5, types.EmotionFrustrated, "")
	store.RecordVisit(ctx, 1, 2, types.DecisionSkip, 10.0, 5, types.EmotionFrustrated, "")
	store.RecordVisit(ctx, 1, 3, types.DecisionBuy, 10.0, 8, types.EmotionDelighted, "they fixed it")

	state, err := store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Flags.IsOnLastChance).False()
	gt.Value(t, state.Experience.ConsecutiveFrustrations).Equal(0)

	// Permanently gone is one-way
	store.RecordVisit(ctx, 2, 1, types.DecisionSkip, 10.0, 5, types.EmotionBetrayed, "")
	store.RecordVisit(ctx, 2, 2, types.DecisionSkip, 10.0, 5, types.EmotionBetrayed, "")
	store.RecordVisit(ctx, 2, 3, types.DecisionSkip, 10.0, 5, types.EmotionBetrayed, "")
	store.RecordVisit(ctx, 2, 4, types.DecisionBuy, 10.0, 9, types.EmotionDelighted, "too late")

	state, err = store.Snapshot(2)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Flags.IsPermanentlyGone).True()
}

func TestHabituationAndBreakage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for turn := 1; turn <= 5; turn++ {
		store.RecordVisit(ctx, 1, turn, types.DecisionBuy, 10.0, 7, types.EmotionSatisfied, "usual")
	}
	state, err := store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Experience.HasRoutine).True()

	// A fair price does not break the routine
	bonus, broken := store.CheckHabitBreakage(ctx, 1, 10.2)
	gt.Bool(t, broken).False()
	gt.Value(t, bonus).Equal(0.0)

	// A price that feels overpriced does, with a flat frustration bonus
	bonus, broken = store.CheckHabitBreakage(ctx, 1, 11.0)
	gt.Bool(t, broken).True()
	gt.Value(t, bonus).Equal(20.0)

	// The check alone stages the break; the state is untouched until committed
	state, err = store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Experience.HasRoutine).True()
	gt.Value(t, state.Experience.RoutineBrokenCount).Equal(0)

	store.CommitHabitBreak(ctx, 1)
	state, err = store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Bool(t, state.Experience.HasRoutine).False()
	gt.Value(t, state.Experience.RoutineBrokenCount).Equal(1)

	// A second commit without a routine is a no-op
	store.CommitHabitBreak(ctx, 1)
	state, err = store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Value(t, state.Experience.RoutineBrokenCount).Equal(1)

	// Once broken it stays broken until rebuilt
	bonus, broken = store.CheckHabitBreakage(ctx, 1, 11.0)
	gt.Bool(t, broken).False()
	gt.Value(t, bonus).Equal(0.0)
}

func TestPeakExperienceKeepsBest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.RecordVisit(ctx, 1, 1, types.DecisionBuy, 10.0, 7, types.EmotionSatisfied, "good but not peak")
	state, err := store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Value(t, state.Experience.PeakExperience).Nil()

	store.RecordVisit(ctx, 1, 2, types.DecisionBuy, 10.0, 8, types.EmotionDelighted, "peak worthy")
	store.RecordVisit(ctx, 1, 3, types.DecisionBuy, 10.0, 10, types.EmotionLoyal, "best ever")
	store.RecordVisit(ctx, 1, 4, types.DecisionBuy, 10.0, 9, types.EmotionDelighted, "still great")

	state, err = store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Value(t, state.Experience.PeakExperience).NotNil()
	gt.Value(t, state.Experience.PeakExperience.Quality).Equal(10)
	gt.Value(t, state.Experience.PeakExperience.Turn).Equal(3)
}

func TestVisitHistoryBounded(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for turn := 1; turn <= 15; turn++ {
		store.RecordVisit(ctx, 1, turn, types.DecisionBuy, 10.0, 7, types.EmotionNeutral, "")
	}

	state, err := store.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Array(t, state.VisitHistory).Length(10)
	gt.Value(t, state.VisitHistory[0].Turn).Equal(6)
	gt.Value(t, state.VisitHistory[9].Turn).Equal(15)

	// Lifetime counters keep the full count
	gt.Value(t, state.Lifetime.TotalVisits).Equal(15)
}

func TestRandomTrustSeedRange(t *testing.T) {
	ctx := context.Background()
	tuning := model.DefaultTuning()
	rng := rand.New(rand.NewPCG(7, 7))
	store := usecase.NewMemoryStore(ctx, memory.New().Memory(), tuning, rng)

	for id := 1; id <= 50; id++ {
		state := store.Get(ctx, id)
		gt.Number(t, state.TrustScore).GreaterOrEqual(40)
		gt.Number(t, state.TrustScore).LessOrEqual(100)
	}
}

func TestStatesSurviveReload(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	store := usecase.NewMemoryStore(ctx, repo.Memory(), fixedTuning(), nil)
	store.RecordVisit(ctx, 1, 1, types.DecisionBuy, 10.0, 7, types.EmotionSatisfied, "")
	store.UpdateTrust(ctx, 1, types.EmotionSatisfied, "")

	reloaded := usecase.NewMemoryStore(ctx, repo.Memory(), fixedTuning(), nil)
	state, err := reloaded.Snapshot(1)
	gt.NoError(t, err).Required()
	gt.Value(t, state.Anchors.InitialPrice).Equal(10.0)
	gt.Value(t, state.TrustScore).Equal(100)
	gt.Value(t, state.Lifetime.TotalVisits).Equal(1)
}
