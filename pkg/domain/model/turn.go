package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// BusinessState describes the simulated business as the oracle should see it
type BusinessState struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Reputation  float64 `json:"reputation"`
}

// TurnInput is one pricing/quality/event decision to simulate against the
// whole persona population.
type TurnInput struct {
	Turn     int            `json:"turnNumber"`
	Price    float64        `json:"price"`
	Quality  int            `json:"quality"`
	Event    string         `json:"event,omitempty"`
	Business *BusinessState `json:"business,omitempty"`
}

// Validate rejects malformed turn parameters before the orchestrator runs
func (in *TurnInput) Validate() error {
	if in.Turn < 0 {
		return goerr.New("turn number must not be negative", goerr.V("turn", in.Turn))
	}
	if in.Price <= 0 {
		return goerr.New("price must be positive", goerr.V("price", in.Price))
	}
	if in.Quality < 1 || in.Quality > 10 {
		return goerr.New("quality must be in [1,10]", goerr.V("quality", in.Quality))
	}
	return nil
}

// OracleDecision is the structured decision returned by the external oracle
type OracleDecision struct {
	Decision        types.Decision        `json:"decision"`
	Reasoning       string                `json:"reasoning"`
	Emotion         types.Emotion         `json:"emotion"`
	PricePerception types.PricePerception `json:"pricePerception"`
}

// Normalize coerces unknown enum values to their safe defaults
func (d *OracleDecision) Normalize() {
	d.Decision = d.Decision.Normalize()
	d.Emotion = d.Emotion.Normalize()
	if !d.PricePerception.IsValid() {
		d.PricePerception = types.PerceptionUnknown
	}
}

// PersonaResult is the outcome of one persona's evaluation within a turn.
// Error results carry a Skip stand-in decision and are excluded from memory
// writes but included in aggregates.
type PersonaResult struct {
	PersonaID       int                   `json:"personaId"`
	Name            string                `json:"name"`
	Archetype       types.Archetype       `json:"archetype"`
	Decision        types.Decision        `json:"decision"`
	Emotion         types.Emotion         `json:"emotion"`
	PricePerception types.PricePerception `json:"pricePerception"`
	Reasoning       string                `json:"reasoning"`
	Sensitivity     float64               `json:"sensitivity"`
	RoutineBroken   bool                  `json:"routineBroken,omitempty"`
	Batch           int                   `json:"batch"`
	Error           bool                  `json:"error"`
	ErrorMessage    string                `json:"errorMessage,omitempty"`
}

// ArchetypeTally is the per-archetype decision breakdown
type ArchetypeTally struct {
	Buys     int `json:"buys"`
	Skips    int `json:"skips"`
	Switches int `json:"switches"`
}

// Aggregates is the reduced view over one turn's full result set
type Aggregates struct {
	Total    int `json:"total"`
	Buys     int `json:"buys"`
	Skips    int `json:"skips"`
	Switches int `json:"switches"`
	Errors   int `json:"errors"`

	BuyRate    float64 `json:"buyRate"`
	SkipRate   float64 `json:"skipRate"`
	SwitchRate float64 `json:"switchRate"`

	ByArchetype  map[types.Archetype]ArchetypeTally `json:"byArchetype"`
	ByEmotion    map[types.Emotion]int              `json:"byEmotion"`
	ByPerception map[types.PricePerception]int      `json:"byPerception"`
	TrustTiers   map[types.TrustTier]int            `json:"trustTiers"`

	AverageTrust    float64 `json:"averageTrust"`
	PermanentlyGone int     `json:"permanentlyGone"`
	OnLastChance    int     `json:"onLastChance"`
}

// TurnResult is the full bundle returned by the batch orchestrator
type TurnResult struct {
	ID            string           `json:"id"`
	Turn          int              `json:"turnNumber"`
	Input         TurnInput        `json:"input"`
	Results       []PersonaResult  `json:"results"`
	Momentum      Momentum         `json:"momentum"`
	MarketMood    types.MarketMood `json:"marketMood"`
	Aggregates    Aggregates       `json:"aggregates"`
	Success       bool             `json:"success"`
	FailureReason string           `json:"failureReason,omitempty"`
	StartedAt     time.Time        `json:"startedAt"`
	CompletedAt   time.Time        `json:"completedAt"`
}
