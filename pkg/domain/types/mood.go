package types

// Mood is a persona's transient mood on a five-point ordinal scale, generated
// fresh each turn. It is distinct from trust, which persists across turns.
type Mood int

const (
	MoodAwful Mood = iota + 1
	MoodBad
	MoodNeutral
	MoodGood
	MoodGreat
)

// Clamp bounds the mood to the valid scale
func (m Mood) Clamp() Mood {
	if m < MoodAwful {
		return MoodAwful
	}
	if m > MoodGreat {
		return MoodGreat
	}
	return m
}

// IsBad reports whether the mood is below neutral
func (m Mood) IsBad() bool {
	return m <= MoodBad
}

// IsGood reports whether the mood is above neutral
func (m Mood) IsGood() bool {
	return m >= MoodGood
}

// String returns the mood's name
func (m Mood) String() string {
	switch m {
	case MoodAwful:
		return "awful"
	case MoodBad:
		return "bad"
	case MoodNeutral:
		return "neutral"
	case MoodGood:
		return "good"
	case MoodGreat:
		return "great"
	default:
		return "unknown"
	}
}
