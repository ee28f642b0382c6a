package colour

import "math"

// pow25To7 is 25^7, used by the G and R_C chroma terms.
const pow25To7 = 6103515625.0

// DeltaE2000 returns the CIEDE2000 colour difference between two Lab colours with
// unit parametric weights (kL = kC = kH = 1).
//
// The implementation follows Sharma, Wu and Dalal, "The CIEDE2000 Color-Difference
// Formula: Implementation Notes, Supplementary Test Data, and Mathematical
// Observations" (2005). Hue angles are kept in degrees throughout. The result is
// symmetric and zero only for identical inputs.
func DeltaE2000(c1, c2 Lab) float64 {
	// Chroma and the a' compensation factor.
	chroma1 := math.Hypot(c1.A, c1.B)
	chroma2 := math.Hypot(c2.A, c2.B)
	meanChroma := (chroma1 + chroma2) / 2
	meanChroma7 := math.Pow(meanChroma, 7)
	g := 0.5 * (1 - math.Sqrt(meanChroma7/(meanChroma7+pow25To7)))

	a1p := (1 + g) * c1.A
	a2p := (1 + g) * c2.A
	c1p := math.Hypot(a1p, c1.B)
	c2p := math.Hypot(a2p, c2.B)
	h1p := hueAngle(c1.B, a1p)
	h2p := hueAngle(c2.B, a2p)

	// Differences.
	deltaLp := c2.L - c1.L
	deltaCp := c2p - c1p

	chromaProduct := c1p * c2p
	var deltahp float64
	if chromaProduct != 0 {
		deltahp = h2p - h1p
		if deltahp > 180 {
			deltahp -= 360
		} else if deltahp < -180 {
			deltahp += 360
		}
	}
	deltaHp := 2 * math.Sqrt(chromaProduct) * math.Sin(radians(deltahp/2))

	// Means.
	meanLp := (c1.L + c2.L) / 2
	meanCp := (c1p + c2p) / 2

	hueSum := h1p + h2p
	var meanhp float64
	switch {
	case chromaProduct == 0:
		meanhp = hueSum
	case math.Abs(h1p-h2p) <= 180:
		meanhp = hueSum / 2
	case hueSum < 360:
		meanhp = (hueSum + 360) / 2
	default:
		meanhp = (hueSum - 360) / 2
	}

	t := 1 -
		0.17*math.Cos(radians(meanhp-30)) +
		0.24*math.Cos(radians(2*meanhp)) +
		0.32*math.Cos(radians(3*meanhp+6)) -
		0.20*math.Cos(radians(4*meanhp-63))

	lOffset := (meanLp - 50) * (meanLp - 50)
	sl := 1 + (0.015*lOffset)/math.Sqrt(20+lOffset)
	sc := 1 + 0.045*meanCp
	sh := 1 + 0.015*meanCp*t

	deltaTheta := 30 * math.Exp(-math.Pow((meanhp-275)/25, 2))
	meanCp7 := math.Pow(meanCp, 7)
	rc := 2 * math.Sqrt(meanCp7/(meanCp7+pow25To7))
	rt := -math.Sin(radians(2*deltaTheta)) * rc

	lTerm := deltaLp / sl
	cTerm := deltaCp / sc
	hTerm := deltaHp / sh

	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rt*cTerm*hTerm)
}

// hueAngle returns atan2(b, a) in degrees normalised to [0, 360). The hue of an
// achromatic colour is defined as 0.
func hueAngle(b, a float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	// A tiny negative angle rounds up to exactly 360 above.
	if h >= 360 {
		h -= 360
	}
	return h
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
