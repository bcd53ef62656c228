package model

import "github.com/crowd-lab/crowdsim/pkg/domain/types"

// Momentum is the aggregate social signal of decisions made so far within a
// turn. It is recomputed cumulatively after every batch and never persisted.
type Momentum struct {
	Leaving   float64         `json:"leaving"`
	Staying   float64         `json:"staying"`
	Switching float64         `json:"switching"`
	Mood      types.CrowdMood `json:"mood"`
	Sample    int             `json:"sample"`
}
