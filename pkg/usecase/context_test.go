package usecase_test

import (
	"math/rand/v2"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/usecase"
)

func TestGenerateContextReproducible(t *testing.T) {
	persona := testPersona(1)
	mem := model.NewMemoryState(1, 70)

	a := usecase.GenerateContext(persona, mem, 5, rand.New(rand.NewPCG(9, 9)))
	b := usecase.GenerateContext(persona, mem, 5, rand.New(rand.NewPCG(9, 9)))

	gt.Value(t, *a).Equal(*b)
}

func TestGenerateContextBounds(t *testing.T) {
	persona := testPersona(1)
	mem := model.NewMemoryState(1, 70)
	rng := rand.New(rand.NewPCG(1, 1))

	for turn := 1; turn <= 200; turn++ {
		tc := usecase.GenerateContext(persona, mem, turn, rng)

		gt.Number(t, tc.Financial.BudgetRemaining).GreaterOrEqual(persona.BudgetRange.Min)
		gt.Number(t, tc.Financial.BudgetRemaining).LessOrEqual(persona.BudgetRange.Max)

		gt.Number(t, int(tc.Emotional.Mood)).GreaterOrEqual(int(types.MoodAwful))
		gt.Number(t, int(tc.Emotional.Mood)).LessOrEqual(int(types.MoodGreat))
		gt.String(t, tc.Emotional.MoodReason).NotEqual("")

		gt.Bool(t, tc.Temporal.TimeOfDay.IsValid()).True()

		found := false
		for _, tod := range persona.PreferredTimes {
			if tod == tc.Temporal.TimeOfDay {
				found = true
			}
		}
		gt.Bool(t, found).True()

		gt.Number(t, tc.Situational.DistanceToCompetitor).GreaterOrEqual(0.5)
		gt.Number(t, tc.Situational.DistanceToCompetitor).LessOrEqual(5.0)
		gt.Number(t, tc.Situational.QualityExpectation).GreaterOrEqual(4)
		gt.Number(t, tc.Situational.QualityExpectation).LessOrEqual(9)
	}
}

func TestGenerateContextPaydayCycle(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	mem := model.NewMemoryState(1, 70)

	professional := testPersona(1)
	professional.Archetype = types.ArchetypeProfessional

	tc := usecase.GenerateContext(professional, mem, 14, rng)
	gt.Bool(t, tc.Financial.IsPayday).True()
	tc = usecase.GenerateContext(professional, mem, 15, rng)
	gt.Bool(t, tc.Financial.IsPayday).False()

	// Everyone else is on a monthly cycle
	regular := testPersona(2)
	tc = usecase.GenerateContext(regular, mem, 14, rng)
	gt.Bool(t, tc.Financial.IsPayday).False()
	tc = usecase.GenerateContext(regular, mem, 30, rng)
	gt.Bool(t, tc.Financial.IsPayday).True()
}

func TestGenerateContextFirstVisit(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	persona := testPersona(1)

	fresh := model.NewMemoryState(1, 70)
	tc := usecase.GenerateContext(persona, fresh, 1, rng)
	gt.Bool(t, tc.Situational.IsFirstVisit).True()

	visited := model.NewMemoryState(1, 70)
	visited.Lifetime.TotalVisits = 3
	tc = usecase.GenerateContext(persona, visited, 4, rng)
	gt.Bool(t, tc.Situational.IsFirstVisit).False()
}

func TestGenerateContextQualityExpectationTracksTaste(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	mem := model.NewMemoryState(1, 70)

	snob := testPersona(1)
	snob.ValuesQuality = true
	for i := 0; i < 50; i++ {
		tc := usecase.GenerateContext(snob, mem, i, rng)
		gt.Number(t, tc.Situational.QualityExpectation).GreaterOrEqual(7)
	}
}
