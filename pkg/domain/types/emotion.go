package types

// Emotion is how a persona feels about the offer after deciding. Negative
// emotions feed the grudge machinery; positive ones build habits and peaks.
type Emotion string

const (
	EmotionNeutral    Emotion = "neutral"
	EmotionSatisfied  Emotion = "satisfied"
	EmotionDelighted  Emotion = "delighted"
	EmotionLoyal      Emotion = "loyal"
	EmotionFrustrated Emotion = "frustrated"
	EmotionAngry      Emotion = "angry"
	EmotionBetrayed   Emotion = "betrayed"
)

// IsValid checks if the emotion is a known value
func (e Emotion) IsValid() bool {
	switch e {
	case EmotionNeutral, EmotionSatisfied, EmotionDelighted, EmotionLoyal,
		EmotionFrustrated, EmotionAngry, EmotionBetrayed:
		return true
	}
	return false
}

// IsNegative reports whether the emotion counts toward consecutive frustrations
func (e Emotion) IsNegative() bool {
	switch e {
	case EmotionFrustrated, EmotionAngry, EmotionBetrayed:
		return true
	}
	return false
}

// IsPositive reports whether the emotion resets frustration and builds habits
func (e Emotion) IsPositive() bool {
	switch e {
	case EmotionSatisfied, EmotionDelighted, EmotionLoyal:
		return true
	}
	return false
}

// Normalize coerces an unknown emotion to Neutral
func (e Emotion) Normalize() Emotion {
	if e.IsValid() {
		return e
	}
	return EmotionNeutral
}

// String returns the string representation of the emotion
func (e Emotion) String() string {
	return string(e)
}
