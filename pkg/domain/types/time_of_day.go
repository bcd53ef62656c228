package types

import "github.com/m-mizutani/goerr/v2"

// TimeOfDay is the coarse daypart a turn takes place in
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// IsValid checks if the time of day is a known value
func (t TimeOfDay) IsValid() bool {
	switch t {
	case TimeMorning, TimeAfternoon, TimeEvening, TimeNight:
		return true
	}
	return false
}

// Validate returns an error if the time of day is unknown
func (t TimeOfDay) Validate() error {
	if !t.IsValid() {
		return goerr.New("unknown time of day", goerr.V("time", string(t)))
	}
	return nil
}

// String returns the string representation of the time of day
func (t TimeOfDay) String() string {
	return string(t)
}
