package model

import (
	"time"

	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// Visit records one answered turn for a persona. Visits are immutable after
// creation; the history only ever evicts the oldest entries.
type Visit struct {
	Turn      int            `json:"turn"`
	Decision  types.Decision `json:"decision"`
	Price     float64        `json:"price"`
	Quality   int            `json:"quality"`
	Emotion   types.Emotion  `json:"emotion"`
	Reasoning string         `json:"reasoning"`
	Timestamp time.Time      `json:"timestamp"`
}

// PriceAnchors holds a persona's remembered reference prices.
// InitialPrice is set once on the first observed price and never overwritten.
type PriceAnchors struct {
	InitialPrice     float64 `json:"initialPrice"`
	HasInitialPrice  bool    `json:"hasInitialPrice"`
	LastPricePaid    float64 `json:"lastPricePaid"`
	LowestPriceSeen  float64 `json:"lowestPriceSeen"`
	HighestPriceSeen float64 `json:"highestPriceSeen"`
}

// PeakExperience remembers the best positive experience a persona ever had
type PeakExperience struct {
	Turn    int           `json:"turn"`
	Quality int           `json:"quality"`
	Emotion types.Emotion `json:"emotion"`
}

// ExperienceState tracks the grudge/habit state machine
type ExperienceState struct {
	ConsecutiveFrustrations int             `json:"consecutiveFrustrations"`
	ConsecutiveBuys         int             `json:"consecutiveBuys"`
	PeakExperience          *PeakExperience `json:"peakExperience,omitempty"`
	HasRoutine              bool            `json:"hasRoutine"`
	RoutineBrokenCount      int             `json:"routineBrokenCount"`
}

// CompetitorKnowledge tracks what a persona has learned about alternatives.
// DiscoveredCompetitor is sticky once set.
type CompetitorKnowledge struct {
	DiscoveredCompetitor bool `json:"discoveredCompetitor"`
	LastSwitchTurn       *int `json:"lastSwitchTurn,omitempty"`
}

// LifetimeStats are monotonically increasing counters over a persona's lifetime
type LifetimeStats struct {
	TotalVisits       int     `json:"totalVisits"`
	TotalBuys         int     `json:"totalBuys"`
	TotalSkips        int     `json:"totalSkips"`
	TotalSwitches     int     `json:"totalSwitches"`
	TotalSpent        float64 `json:"totalSpent"`
	TimesDisappointed int     `json:"timesDisappointed"`
	TimesDelighted    int     `json:"timesDelighted"`
}

// MemoryFlags are the disengagement latches.
// IsPermanentlyGone is one-way: once set it is never cleared.
type MemoryFlags struct {
	IsPermanentlyGone   bool `json:"isPermanentlyGone"`
	IsOnLastChance      bool `json:"isOnLastChance"`
	LastChanceGivenTurn *int `json:"lastChanceGivenTurn,omitempty"`
}

// MemoryState is a persona's durable emotional and economic memory.
// It is owned exclusively by the memory store; callers receive copies.
type MemoryState struct {
	PersonaID    int                 `json:"personaId"`
	TrustScore   int                 `json:"trustScore"`
	VisitHistory []Visit             `json:"visitHistory"`
	Anchors      PriceAnchors        `json:"priceAnchoring"`
	Experience   ExperienceState     `json:"experienceTracking"`
	Competitor   CompetitorKnowledge `json:"competitorKnowledge"`
	Lifetime     LifetimeStats       `json:"lifetimeStats"`
	Flags        MemoryFlags         `json:"flags"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NewMemoryState returns a default-initialized state with the given trust seed
func NewMemoryState(personaID, trust int) *MemoryState {
	return &MemoryState{
		PersonaID:  personaID,
		TrustScore: trust,
	}
}

// Clone returns a deep copy so callers cannot mutate the store's state
func (s *MemoryState) Clone() *MemoryState {
	cp := *s
	cp.VisitHistory = make([]Visit, len(s.VisitHistory))
	copy(cp.VisitHistory, s.VisitHistory)
	if s.Experience.PeakExperience != nil {
		peak := *s.Experience.PeakExperience
		cp.Experience.PeakExperience = &peak
	}
	if s.Competitor.LastSwitchTurn != nil {
		turn := *s.Competitor.LastSwitchTurn
		cp.Competitor.LastSwitchTurn = &turn
	}
	if s.Flags.LastChanceGivenTurn != nil {
		turn := *s.Flags.LastChanceGivenTurn
		cp.Flags.LastChanceGivenTurn = &turn
	}
	return &cp
}

// RecentVisits returns up to the n most recent visits, oldest first
func (s *MemoryState) RecentVisits(n int) []Visit {
	if n <= 0 || len(s.VisitHistory) == 0 {
		return nil
	}
	if len(s.VisitHistory) <= n {
		out := make([]Visit, len(s.VisitHistory))
		copy(out, s.VisitHistory)
		return out
	}
	out := make([]Visit, n)
	copy(out, s.VisitHistory[len(s.VisitHistory)-n:])
	return out
}
