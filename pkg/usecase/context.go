package usecase

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// recentExpenseProb is the archetype-specific probability of an unexpected
// expense having hit the persona recently.
var recentExpenseProb = map[types.Archetype]float64{
	types.ArchetypeStudent:      0.70,
	types.ArchetypeProfessional: 0.30,
	types.ArchetypeParent:       0.65,
	types.ArchetypeRetiree:      0.40,
	types.ArchetypeFreelancer:   0.60,
	types.ArchetypeTourist:      0.45,
	types.ArchetypeRegular:      0.50,
}

const defaultRecentExpenseProb = 0.5

// withFriendsProb is the archetype-specific probability of visiting with company
var withFriendsProb = map[types.Archetype]float64{
	types.ArchetypeStudent:      0.60,
	types.ArchetypeProfessional: 0.20,
	types.ArchetypeParent:       0.45,
	types.ArchetypeRetiree:      0.35,
	types.ArchetypeFreelancer:   0.25,
	types.ArchetypeTourist:      0.70,
	types.ArchetypeRegular:      0.30,
}

const defaultWithFriendsProb = 0.3

// rushProb maps (day, time of day) to a base rushing probability.
// Weekday mornings are the crunch; weekends are slow.
var rushProb = map[time.Weekday]map[types.TimeOfDay]float64{
	time.Monday:    {types.TimeMorning: 0.70, types.TimeAfternoon: 0.40, types.TimeEvening: 0.30, types.TimeNight: 0.10},
	time.Tuesday:   {types.TimeMorning: 0.60, types.TimeAfternoon: 0.35, types.TimeEvening: 0.25, types.TimeNight: 0.10},
	time.Wednesday: {types.TimeMorning: 0.60, types.TimeAfternoon: 0.35, types.TimeEvening: 0.25, types.TimeNight: 0.10},
	time.Thursday:  {types.TimeMorning: 0.60, types.TimeAfternoon: 0.40, types.TimeEvening: 0.30, types.TimeNight: 0.15},
	time.Friday:    {types.TimeMorning: 0.55, types.TimeAfternoon: 0.30, types.TimeEvening: 0.45, types.TimeNight: 0.25},
	time.Saturday:  {types.TimeMorning: 0.20, types.TimeAfternoon: 0.25, types.TimeEvening: 0.35, types.TimeNight: 0.20},
	time.Sunday:    {types.TimeMorning: 0.10, types.TimeAfternoon: 0.15, types.TimeEvening: 0.20, types.TimeNight: 0.10},
}

var moodReasons = map[types.Mood]string{
	types.MoodAwful:   "nothing has gone right today",
	types.MoodBad:     "the day has been dragging",
	types.MoodNeutral: "just an ordinary day",
	types.MoodGood:    "the day is going well",
	types.MoodGreat:   "everything is clicking today",
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
var weekendDays = []time.Weekday{time.Saturday, time.Sunday}

// GenerateContext derives the ephemeral turn context for one persona. It is a
// pure function of its inputs plus the injected random source, which makes
// the derivation fully reproducible under a fixed seed.
func GenerateContext(p *model.Persona, mem *model.MemoryState, turn int, rng *rand.Rand) *model.TurnContext {
	financial := generateFinancial(p, turn, rng)
	temporal := generateTemporal(p, rng)
	emotional := generateEmotional(p, mem, temporal, rng)
	situational := generateSituational(p, mem, rng)

	return &model.TurnContext{
		Turn:        turn,
		Financial:   financial,
		Temporal:    temporal,
		Emotional:   emotional,
		Situational: situational,
	}
}

func generateFinancial(p *model.Persona, turn int, rng *rand.Rand) model.FinancialContext {
	budget := p.BudgetRange.Min + rng.Float64()*p.BudgetRange.Span()

	payCycle := 30
	if p.Archetype == types.ArchetypeProfessional {
		payCycle = 14
	}
	isPayday := turn%payCycle == 0

	prob, ok := recentExpenseProb[p.Archetype]
	if !ok {
		prob = defaultRecentExpenseProb
	}
	hadRecentExpense := rng.Float64() < prob

	tightness := model.BudgetComfortable
	if budget < p.BudgetRange.Min+0.3*p.BudgetRange.Span() {
		tightness = model.BudgetTight
	}

	return model.FinancialContext{
		BudgetRemaining:  budget,
		IsPayday:         isPayday,
		HadRecentExpense: hadRecentExpense,
		Tightness:        tightness,
	}
}

func generateTemporal(p *model.Persona, rng *rand.Rand) model.TemporalContext {
	var day time.Weekday
	if rng.Float64() < p.WeekdayPreference {
		day = weekdays[rng.IntN(len(weekdays))]
	} else {
		day = weekendDays[rng.IntN(len(weekendDays))]
	}

	tod := p.PreferredTimes[rng.IntN(len(p.PreferredTimes))]

	base := rushProb[day][tod]
	scale := 0.8
	if p.ValuesSpeed {
		scale = 1.2
	}
	isRushing := rng.Float64() < base*scale

	return model.TemporalContext{
		DayOfWeek: day,
		TimeOfDay: tod,
		IsRushing: isRushing,
		IsWeekend: day == time.Saturday || day == time.Sunday,
	}
}

func generateEmotional(p *model.Persona, mem *model.MemoryState, temporal model.TemporalContext, rng *rand.Rand) model.EmotionalContext {
	// Start at the neutral midpoint and perturb by trait-scaled noise
	score := float64(types.MoodNeutral) + (rng.Float64()*2-1)*p.MoodVariance*2

	// Fixed modifiers, applied in this order
	if temporal.DayOfWeek == time.Monday && temporal.TimeOfDay == types.TimeMorning {
		score--
	}
	if temporal.DayOfWeek == time.Friday && temporal.TimeOfDay == types.TimeAfternoon {
		score++
	}
	if temporal.IsWeekend && p.Archetype == types.ArchetypeProfessional {
		score++
	}
	if mem.TrustScore < 50 {
		score--
	}
	if mem.TrustScore > 80 {
		score++
	}
	if mem.Lifetime.TimesDisappointed > mem.Lifetime.TimesDelighted {
		score--
	}

	mood := types.Mood(int(math.Round(score))).Clamp()

	return model.EmotionalContext{
		Mood:       mood,
		MoodReason: moodReasons[mood],
	}
}

func generateSituational(p *model.Persona, mem *model.MemoryState, rng *rand.Rand) model.SituationalContext {
	prob, ok := withFriendsProb[p.Archetype]
	if !ok {
		prob = defaultWithFriendsProb
	}

	expectation := 4 + rng.IntN(5)
	if p.ValuesQuality {
		expectation = 7 + rng.IntN(3)
	}

	return model.SituationalContext{
		WithFriends:          rng.Float64() < prob,
		HasAlternative:       rng.Float64() < p.RiskTolerance*0.7,
		DistanceToCompetitor: 0.5 + rng.Float64()*4.5,
		QualityExpectation:   expectation,
		IsFirstVisit:         mem.Lifetime.TotalVisits == 0,
	}
}
