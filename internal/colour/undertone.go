package colour

// Undertone is a coarse warm/cool/neutral classification of skin colour.
type Undertone string

// Undertone labels.
const (
	UndertoneCool    Undertone = "Cool"
	UndertoneWarm    Undertone = "Warm"
	UndertoneNeutral Undertone = "Neutral"
)

// DefaultUndertoneMargin is the width, in Lab units, of the neutral band between
// the a (red) and b (yellow) channels. It is a tunable, not a derived constant.
const DefaultUndertoneMargin = 2.0

// EstimateUndertone classifies a skin colour with DefaultUndertoneMargin.
func EstimateUndertone(skin Lab) Undertone {
	return EstimateUndertoneWithMargin(skin, DefaultUndertoneMargin)
}

// EstimateUndertoneWithMargin returns Cool when a exceeds b by more than margin,
// Warm when b exceeds a by more than margin, and Neutral otherwise.
func EstimateUndertoneWithMargin(skin Lab, margin float64) Undertone {
	switch {
	case skin.A > skin.B+margin:
		return UndertoneCool
	case skin.B > skin.A+margin:
		return UndertoneWarm
	default:
		return UndertoneNeutral
	}
}
