package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/crowd-lab/crowdsim/pkg/domain/types"
)

// Tuning holds the product-tuning constants of the market dynamics engine.
// The values below are the shipped defaults; any change to them is a behavior
// change and must come with test updates.
type Tuning struct {
	// Price perception thresholds, as fractions of the initial price
	FairBand            float64 `toml:"fair_band"`
	CheapThreshold      float64 `toml:"cheap_threshold"`
	OutrageousThreshold float64 `toml:"outrageous_threshold"`
	// LossAversionWeight multiplies perceived price increases
	LossAversionWeight float64 `toml:"loss_aversion_weight"`

	// Trust dynamics
	TrustDeltas map[types.Emotion]int `toml:"trust_deltas"`
	// RecoveryDivisor divides positive trust deltas (easy to lose, hard to rebuild)
	RecoveryDivisor int  `toml:"recovery_divisor"`
	RandomTrustSeed bool `toml:"random_trust_seed"`

	// Grudge / habit state machine
	LastChanceAt          int     `toml:"last_chance_at"`
	PermanentlyGoneAt     int     `toml:"permanently_gone_at"`
	RoutineAt             int     `toml:"routine_at"`
	PeakQualityFloor      int     `toml:"peak_quality_floor"`
	HabitBreakFrustration float64 `toml:"habit_break_frustration"`
	HistoryLimit          int     `toml:"history_limit"`

	// Social pressure coefficients
	LeavingPressureFloor float64 `toml:"leaving_pressure_floor"`
	LeavingPressureScale float64 `toml:"leaving_pressure_scale"`
	StayingPressureFloor float64 `toml:"staying_pressure_floor"`
	StayingPressureScale float64 `toml:"staying_pressure_scale"`

	// Orchestration
	BatchSize int `toml:"batch_size"`
}

// DefaultTuning returns the shipped policy defaults
func DefaultTuning() *Tuning {
	return &Tuning{
		FairBand:            0.05,
		CheapThreshold:      0.10,
		OutrageousThreshold: 0.20,
		LossAversionWeight:  2.0,

		TrustDeltas: map[types.Emotion]int{
			types.EmotionSatisfied:  5,
			types.EmotionDelighted:  10,
			types.EmotionLoyal:      15,
			types.EmotionNeutral:    0,
			types.EmotionFrustrated: -15,
			types.EmotionAngry:      -25,
			types.EmotionBetrayed:   -40,
		},
		RecoveryDivisor: 3,
		RandomTrustSeed: true,

		LastChanceAt:          2,
		PermanentlyGoneAt:     3,
		RoutineAt:             5,
		PeakQualityFloor:      8,
		HabitBreakFrustration: 20,
		HistoryLimit:          10,

		LeavingPressureFloor: 0.3,
		LeavingPressureScale: 0.5,
		StayingPressureFloor: 0.6,
		StayingPressureScale: 0.3,

		BatchSize: 8,
	}
}

// TrustDelta looks up the trust delta for an emotion. Unknown emotions map to
// zero rather than failing.
func (t *Tuning) TrustDelta(emotion types.Emotion) int {
	return t.TrustDeltas[emotion.Normalize()]
}

// Validate sanity-checks the tuning constants
func (t *Tuning) Validate() error {
	if t.FairBand <= 0 || t.CheapThreshold <= 0 || t.OutrageousThreshold <= 0 {
		return goerr.New("perception thresholds must be positive")
	}
	if t.LossAversionWeight < 1 {
		return goerr.New("loss aversion weight must be at least 1",
			goerr.V("weight", t.LossAversionWeight))
	}
	if t.RecoveryDivisor < 1 {
		return goerr.New("recovery divisor must be at least 1",
			goerr.V("divisor", t.RecoveryDivisor))
	}
	if t.LastChanceAt < 1 || t.PermanentlyGoneAt <= t.LastChanceAt {
		return goerr.New("grudge thresholds must escalate",
			goerr.V("last_chance_at", t.LastChanceAt),
			goerr.V("permanently_gone_at", t.PermanentlyGoneAt))
	}
	if t.RoutineAt < 1 {
		return goerr.New("routine threshold must be at least 1", goerr.V("routine_at", t.RoutineAt))
	}
	if t.HistoryLimit < 1 {
		return goerr.New("history limit must be at least 1", goerr.V("limit", t.HistoryLimit))
	}
	if t.BatchSize < 1 {
		return goerr.New("batch size must be at least 1", goerr.V("batch_size", t.BatchSize))
	}
	return nil
}
