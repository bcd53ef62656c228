package types

// CrowdMood is the herd signal derived from momentum within a turn
type CrowdMood string

const (
	CrowdMoodNeutral      CrowdMood = "neutral"
	CrowdMoodMassExit     CrowdMood = "mass_exit"
	CrowdMoodMassAdoption CrowdMood = "mass_adoption"
)

// String returns the string representation of the crowd mood
func (c CrowdMood) String() string {
	return string(c)
}

// MarketMood is the turn-level market sentiment label reported to callers
type MarketMood string

const (
	MarketMoodBrandCrisis MarketMood = "Brand Crisis"
	MarketMoodMassExodus  MarketMood = "Mass Exodus"
	MarketMoodResentful   MarketMood = "Resentful"
	MarketMoodViralHype   MarketMood = "Viral Hype"
	MarketMoodFOMOWave    MarketMood = "FOMO Wave"
	MarketMoodOptimistic  MarketMood = "Optimistic"
	MarketMoodSkeptical   MarketMood = "Skeptical"
	MarketMoodBalanced    MarketMood = "Balanced"
)

// String returns the string representation of the market mood
func (m MarketMood) String() string {
	return string(m)
}

// TrustTier buckets a trust score for aggregate reporting
type TrustTier string

const (
	TrustTierLow    TrustTier = "low"
	TrustTierMedium TrustTier = "medium"
	TrustTierHigh   TrustTier = "high"
)

// TrustTierOf buckets a 0-100 trust score: low below 50, medium up to
// but not including 80, high from 80
func TrustTierOf(trust int) TrustTier {
	switch {
	case trust >= 80:
		return TrustTierHigh
	case trust >= 50:
		return TrustTierMedium
	default:
		return TrustTierLow
	}
}
