package types

// PricePerception is how a price lands against a persona's anchors
type PricePerception string

const (
	PerceptionUnknown    PricePerception = "unknown"
	PerceptionCheap      PricePerception = "cheap"
	PerceptionFair       PricePerception = "fair"
	PerceptionExpensive  PricePerception = "expensive"
	PerceptionOutrageous PricePerception = "outrageous"
)

// IsValid checks if the perception is a known value
func (p PricePerception) IsValid() bool {
	switch p {
	case PerceptionUnknown, PerceptionCheap, PerceptionFair, PerceptionExpensive, PerceptionOutrageous:
		return true
	}
	return false
}

// FeelsOverpriced reports whether the perception can break a routine
func (p PricePerception) FeelsOverpriced() bool {
	return p == PerceptionExpensive || p == PerceptionOutrageous
}

// String returns the string representation of the perception
func (p PricePerception) String() string {
	return string(p)
}
