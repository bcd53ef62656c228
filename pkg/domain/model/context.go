package model

import (
	"time"

	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// BudgetTightness classifies how much room a persona's budget leaves this turn
type BudgetTightness string

const (
	BudgetTight       BudgetTightness = "tight"
	BudgetComfortable BudgetTightness = "comfortable"
)

// FinancialContext is the money side of a persona's turn context
type FinancialContext struct {
	BudgetRemaining  float64         `json:"budgetRemaining"`
	IsPayday         bool            `json:"isPayday"`
	HadRecentExpense bool            `json:"hadRecentExpense"`
	Tightness        BudgetTightness `json:"budgetTightness"`
}

// TemporalContext is the when side of a persona's turn context
type TemporalContext struct {
	DayOfWeek time.Weekday    `json:"dayOfWeek"`
	TimeOfDay types.TimeOfDay `json:"timeOfDay"`
	IsRushing bool            `json:"isRushing"`
	IsWeekend bool            `json:"isWeekend"`
}

// EmotionalContext is the mood side of a persona's turn context
type EmotionalContext struct {
	Mood       types.Mood `json:"currentMood"`
	MoodReason string     `json:"moodReason"`
}

// SituationalContext is everything else about the persona's situation this turn
type SituationalContext struct {
	WithFriends          bool    `json:"withFriends"`
	HasAlternative       bool    `json:"hasAlternative"`
	DistanceToCompetitor float64 `json:"distanceToCompetitor"`
	QualityExpectation   int     `json:"qualityExpectation"`
	IsFirstVisit         bool    `json:"isFirstVisit"`
}

// TurnContext is the ephemeral situational context derived fresh for one
// (persona, turn) pair. It is never persisted.
type TurnContext struct {
	Turn        int                `json:"turn"`
	Financial   FinancialContext   `json:"financial"`
	Temporal    TemporalContext    `json:"temporal"`
	Emotional   EmotionalContext   `json:"emotional"`
	Situational SituationalContext `json:"situational"`
}

// PricePerceptionResult is the memory store's classification of a price
// against the persona's anchors.
type PricePerceptionResult struct {
	Perception types.PricePerception `json:"perception"`
	// Magnitude is the loss-aversion-weighted delta as a fraction of the
	// initial price. Positive means the price feels higher.
	Magnitude float64 `json:"magnitude"`
	VsInitial float64 `json:"vsInitial"`
	VsLast    float64 `json:"vsLast"`
	VsLowest  float64 `json:"vsLowest"`
}

// DecisionContext is the read-only composite the orchestrator hands to the
// decision oracle alongside the turn context.
type DecisionContext struct {
	TrustScore              int                   `json:"trustScore"`
	RecentVisits            []Visit               `json:"recentVisits"`
	Perception              PricePerceptionResult `json:"pricePerception"`
	HasRoutine              bool                  `json:"hasRoutine"`
	RoutineBroken           bool                  `json:"routineBroken"`
	FrustrationBonus        float64               `json:"frustrationBonus"`
	ConsecutiveFrustrations int                   `json:"consecutiveFrustrations"`
	IsOnLastChance          bool                  `json:"isOnLastChance"`
	IsPermanentlyGone       bool                  `json:"isPermanentlyGone"`
	PeakExperience          *PeakExperience       `json:"peakExperience,omitempty"`
	Competitor              CompetitorKnowledge   `json:"competitorKnowledge"`
	Lifetime                LifetimeStats         `json:"lifetimeStats"`
}
