package oracle

import (
	"fmt"
	"strings"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
)

func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are role-playing a single consumer deciding whether to purchase from a small business today.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Stay fully in character: the profile, memories, and current situation below define who you are.\n")
	sb.WriteString("2. Decide exactly one of: buy, skip, switch. \"switch\" means going to a competitor instead.\n")
	sb.WriteString("3. Pick the emotion that best matches how this visit makes you feel: neutral, satisfied, delighted, loyal, frustrated, angry, betrayed.\n")
	sb.WriteString("4. Pick a price perception: cheap, fair, expensive, outrageous, unknown.\n")
	sb.WriteString("5. Your trust, price memory, and habits matter more than the raw price: a loyal regular tolerates more, a betrayed customer forgives slowly.\n")
	sb.WriteString("6. Keep reasoning to one or two first-person sentences.\n")

	return sb.String()
}

func buildUserPrompt(req *interfaces.OracleRequest) string {
	p := req.Persona
	in := req.Input
	tc := req.TurnContext
	dc := req.Decision

	var sb strings.Builder

	sb.WriteString("## Who you are\n")
	fmt.Fprintf(&sb, "Name: %s (archetype: %s)\n", p.Name, p.Archetype)
	fmt.Fprintf(&sb, "Price sensitivity today: %.2f (0 = indifferent, 1 = extremely price-driven)\n", req.Sensitivity)
	fmt.Fprintf(&sb, "Brand loyalty: %.2f, quality threshold: %.2f\n", p.BrandLoyalty, p.QualityThreshold)
	if p.ValuesSpeed {
		sb.WriteString("You value fast service.\n")
	}
	if p.ValuesQuality {
		sb.WriteString("You value high quality.\n")
	}

	sb.WriteString("\n## Today's offer\n")
	fmt.Fprintf(&sb, "Price: $%.2f, quality: %d/10\n", in.Price, in.Quality)
	if in.Event != "" {
		fmt.Fprintf(&sb, "Ongoing event: %s\n", in.Event)
	}
	if in.Business != nil {
		fmt.Fprintf(&sb, "The business: %s (reputation %.2f)\n", in.Business.Name, in.Business.Reputation)
	}

	if tc != nil {
		sb.WriteString("\n## Your situation\n")
		fmt.Fprintf(&sb, "It is %s %s. Mood: %s (%s).\n",
			tc.Temporal.DayOfWeek, tc.Temporal.TimeOfDay, tc.Emotional.Mood, tc.Emotional.MoodReason)
		fmt.Fprintf(&sb, "Budget remaining: $%.2f (%s)", tc.Financial.BudgetRemaining, tc.Financial.Tightness)
		if tc.Financial.IsPayday {
			sb.WriteString(", and it is payday")
		}
		if tc.Financial.HadRecentExpense {
			sb.WriteString(", but you just had an unexpected expense")
		}
		sb.WriteString(".\n")
		if tc.Temporal.IsRushing {
			sb.WriteString("You are in a rush.\n")
		}
		if tc.Situational.WithFriends {
			sb.WriteString("You are with friends.\n")
		}
		if tc.Situational.HasAlternative {
			fmt.Fprintf(&sb, "You know a competitor about %.1f km away.\n", tc.Situational.DistanceToCompetitor)
		}
		fmt.Fprintf(&sb, "You expect quality of at least %d/10.\n", tc.Situational.QualityExpectation)
		if tc.Situational.IsFirstVisit {
			sb.WriteString("This is your first visit here.\n")
		}
	}

	if dc != nil {
		sb.WriteString("\n## What you remember\n")
		fmt.Fprintf(&sb, "Trust toward this business: %d/100.\n", dc.TrustScore)
		if dc.Perception.Perception != "" {
			fmt.Fprintf(&sb, "Today's price feels %s compared to what you remember paying.\n", dc.Perception.Perception)
		}
		if dc.HasRoutine {
			sb.WriteString("Coming here is part of your routine.\n")
		}
		if dc.RoutineBroken {
			sb.WriteString("Your routine here was just broken by the price, which frustrates you a lot.\n")
		}
		if dc.IsOnLastChance {
			sb.WriteString("After recent disappointments you are giving this place one last chance.\n")
		}
		if dc.IsPermanentlyGone {
			sb.WriteString("You wrote this place off for good after too many bad experiences; almost nothing could bring you back.\n")
		}
		if dc.ConsecutiveFrustrations > 0 {
			fmt.Fprintf(&sb, "Your last %d visits in a row left you frustrated.\n", dc.ConsecutiveFrustrations)
		}
		if dc.PeakExperience != nil {
			fmt.Fprintf(&sb, "Your best memory here was a %d/10 experience.\n", dc.PeakExperience.Quality)
		}
		if dc.Competitor.DiscoveredCompetitor {
			sb.WriteString("You have tried a competitor before.\n")
		}
		for _, v := range dc.RecentVisits {
			fmt.Fprintf(&sb, "- Turn %d: you chose %s at $%.2f and felt %s.\n",
				v.Turn, v.Decision, v.Price, v.Emotion)
		}
	}

	sb.WriteString("\nDecide now.")
	return sb.String()
}
