package types

// Decision is a persona's purchase decision for one turn
type Decision string

const (
	DecisionBuy    Decision = "buy"
	DecisionSkip   Decision = "skip"
	DecisionSwitch Decision = "switch"
)

// IsValid checks if the decision is a known value
func (d Decision) IsValid() bool {
	switch d {
	case DecisionBuy, DecisionSkip, DecisionSwitch:
		return true
	}
	return false
}

// Normalize coerces an unknown decision to Skip, the safe default when the
// oracle responds with something unexpected.
func (d Decision) Normalize() Decision {
	if d.IsValid() {
		return d
	}
	return DecisionSkip
}

// String returns the string representation of the decision
func (d Decision) String() string {
	return string(d)
}
