// Package colour provides the colorimetry used to classify facial regions: sRGB to
// CIE Lab conversion, CIEDE2000 colour difference, dominant colour extraction and
// nearest-neighbour classification against fixed reference palettes.
package colour

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
)

// D65 reference white tristimulus values (2 degree observer), scaled to Y=100.
const (
	whiteX = 95.047
	whiteY = 100.0
	whiteZ = 108.883
)

// CIE f(t) constants.
const (
	labEpsilon = 0.008856
	labKappa   = 7.787
	labOffset  = 16.0 / 116.0
)

// RGB represents a device sRGB pixel with 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// FromColor converts any color.Color to RGB. Alpha is discarded rather than
// composited, so a translucent pixel keeps its straight colour channels.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Lab is a colour in CIE L*a*b* space (D65). L is in [0, 100]; a and b are
// roughly in [-128, 127].
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// IsZero reports whether c is the zero sentinel returned for empty regions.
func (c Lab) IsZero() bool {
	return c.L == 0 && c.A == 0 && c.B == 0
}

// String returns the Lab colour formatted to four decimal places.
func (c Lab) String() string {
	return fmt.Sprintf("lab(%.4f, %.4f, %.4f)", c.L, c.A, c.B)
}

// Hex renders c back to an sRGB hex string. Out-of-gamut values are clamped.
func (c Lab) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// RGB renders c back to a clamped 8-bit sRGB value.
func (c Lab) RGB() RGB {
	r, g, b := c.Colorful().Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Colorful converts c into go-colorful's representation, which scales L to [0, 1]
// and a/b by 1/100.
func (c Lab) Colorful() colorful.Color {
	return colorful.Lab(c.L/100, c.A/100, c.B/100)
}

// Coordinates implements clusters.Observation.
func (c Lab) Coordinates() clusters.Coordinates {
	return clusters.Coordinates{c.L, c.A, c.B}
}

// Distance implements clusters.Observation as the squared Euclidean distance in
// Lab space. Clustering uses this metric; classification uses DeltaE2000.
func (c Lab) Distance(point clusters.Coordinates) float64 {
	dl := c.L - point[0]
	da := c.A - point[1]
	db := c.B - point[2]
	return dl*dl + da*da + db*db
}

// ToLab converts an 8-bit sRGB pixel to CIE Lab under D65.
func ToLab(p RGB) Lab {
	r := linearise(float64(p.R)/255.0) * 100
	g := linearise(float64(p.G)/255.0) * 100
	b := linearise(float64(p.B)/255.0) * 100

	x := r*0.4124 + g*0.3576 + b*0.1805
	y := r*0.2126 + g*0.7152 + b*0.0722
	z := r*0.0193 + g*0.1192 + b*0.9505

	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)

	l := 116*fy - 16
	if l < 0 {
		l = 0
	}

	return Lab{
		L: l,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// linearise applies the inverse sRGB transfer function to a channel in [0, 1].
func linearise(v float64) float64 {
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + labOffset
}
