package colour

import (
	"math"
	"testing"

	"github.com/jkl1337/go-chromath"
	"github.com/jkl1337/go-chromath/deltae"
)

// sharmaPairs are test pairs from Sharma, Wu and Dalal (2005), Table 1.
var sharmaPairs = []struct {
	c1, c2 Lab
	want   float64
}{
	{Lab{50.0000, 2.6772, -79.7751}, Lab{50.0000, 0.0000, -82.7485}, 2.0425},
	{Lab{50.0000, 3.1571, -77.2803}, Lab{50.0000, 0.0000, -82.7485}, 2.8615},
	{Lab{50.0000, 2.8361, -74.0200}, Lab{50.0000, 0.0000, -82.7485}, 3.4412},
	{Lab{50.0000, -1.3802, -84.2814}, Lab{50.0000, 0.0000, -82.7485}, 1.0000},
	{Lab{50.0000, -1.1848, -84.8006}, Lab{50.0000, 0.0000, -82.7485}, 1.0000},
	{Lab{50.0000, -0.9009, -85.5211}, Lab{50.0000, 0.0000, -82.7485}, 1.0000},
	{Lab{50.0000, 0.0000, 0.0000}, Lab{50.0000, -1.0000, 2.0000}, 2.3669},
	{Lab{50.0000, -1.0000, 2.0000}, Lab{50.0000, 0.0000, 0.0000}, 2.3669},
	{Lab{50.0000, 2.4900, -0.0010}, Lab{50.0000, -2.4900, 0.0009}, 7.1792},
	{Lab{50.0000, 2.4900, -0.0010}, Lab{50.0000, -2.4900, 0.0010}, 7.1792},
	{Lab{50.0000, 2.4900, -0.0010}, Lab{50.0000, -2.4900, 0.0011}, 7.2195},
	{Lab{50.0000, 2.4900, -0.0010}, Lab{50.0000, -2.4900, 0.0012}, 7.2195},
	{Lab{50.0000, -0.0010, 2.4900}, Lab{50.0000, 0.0009, -2.4900}, 4.8045},
	{Lab{50.0000, -0.0010, 2.4900}, Lab{50.0000, 0.0010, -2.4900}, 4.8045},
	{Lab{50.0000, -0.0010, 2.4900}, Lab{50.0000, 0.0011, -2.4900}, 4.7461},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{50.0000, 0.0000, -2.5000}, 4.3065},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{73.0000, 25.0000, -18.0000}, 27.1492},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{61.0000, -5.0000, 29.0000}, 22.8977},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{56.0000, -27.0000, -3.0000}, 31.9030},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{58.0000, 24.0000, 15.0000}, 19.4535},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{50.0000, 3.1736, 0.5854}, 1.0000},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{50.0000, 3.2972, 0.0000}, 1.0000},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{50.0000, 1.8634, 0.5757}, 1.0000},
	{Lab{50.0000, 2.5000, 0.0000}, Lab{50.0000, 3.2592, 0.3350}, 1.0000},
	{Lab{60.2574, -34.0099, 36.2677}, Lab{60.4626, -34.1751, 39.4387}, 1.2644},
	{Lab{63.0109, -31.0961, -5.8663}, Lab{62.8187, -29.7946, -4.0864}, 1.2630},
	{Lab{61.2901, 3.7196, -5.3901}, Lab{61.4292, 2.2480, -4.9620}, 1.8731},
	{Lab{35.0831, -44.1164, 3.7933}, Lab{35.0232, -40.0716, 1.5901}, 1.8645},
	{Lab{22.7233, 20.0904, -46.6940}, Lab{23.0331, 14.9730, -42.5619}, 2.0373},
	{Lab{36.4612, 47.8580, 18.3852}, Lab{36.2715, 50.5065, 21.2231}, 1.4146},
	{Lab{90.8027, -2.0831, 1.4410}, Lab{91.1528, -1.6435, 0.0447}, 1.4441},
	{Lab{90.9257, -0.5406, -0.9208}, Lab{88.6381, -0.8985, -0.7239}, 1.5381},
	{Lab{6.7747, -0.2908, -2.4247}, Lab{5.8714, -0.0985, -2.2286}, 0.6377},
	{Lab{2.0776, 0.0795, -1.1350}, Lab{0.9033, -0.0636, -0.5514}, 0.9082},
}

func TestDeltaE2000SharmaData(t *testing.T) {
	for i, tt := range sharmaPairs {
		got := DeltaE2000(tt.c1, tt.c2)
		if math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("pair %d: DeltaE2000(%v, %v) = %.6f, want %.4f", i+1, tt.c1, tt.c2, got, tt.want)
		}
	}
}

func TestDeltaE2000Identity(t *testing.T) {
	for _, p := range []*Palette{SkinToneScale, IrisColours, HairColours} {
		for _, e := range p.Entries() {
			if d := DeltaE2000(e.Lab, e.Lab); d != 0 {
				t.Errorf("%s/%s: DeltaE2000(c, c) = %g, want 0", p.Name(), e.Label, d)
			}
		}
	}
	if d := DeltaE2000(Lab{}, Lab{}); d != 0 {
		t.Errorf("DeltaE2000(zero, zero) = %g, want 0", d)
	}
}

func TestDeltaE2000Symmetric(t *testing.T) {
	var colours []Lab
	for _, p := range []*Palette{SkinToneScale, IrisColours, HairColours} {
		for _, e := range p.Entries() {
			colours = append(colours, e.Lab)
		}
	}
	colours = append(colours, Lab{}, ToLab(RGB{200, 150, 120}), ToLab(RGB{255, 0, 255}))
	for _, pair := range sharmaPairs {
		colours = append(colours, pair.c1, pair.c2)
	}

	for _, c1 := range colours {
		for _, c2 := range colours {
			d12 := DeltaE2000(c1, c2)
			d21 := DeltaE2000(c2, c1)
			if d12 != d21 {
				t.Fatalf("DeltaE2000 not symmetric for %v, %v: %g vs %g", c1, c2, d12, d21)
			}
			if d12 < 0 || math.IsNaN(d12) {
				t.Fatalf("DeltaE2000(%v, %v) = %g, want non-negative", c1, c2, d12)
			}
			if c1 != c2 && d12 == 0 {
				t.Fatalf("DeltaE2000(%v, %v) = 0 for distinct colours", c1, c2)
			}
		}
	}
}

// primedHues returns h1' and h2' for a pair, in degrees.
func primedHues(c1, c2 Lab) (float64, float64) {
	meanChroma7 := math.Pow((math.Hypot(c1.A, c1.B)+math.Hypot(c2.A, c2.B))/2, 7)
	g := 0.5 * (1 - math.Sqrt(meanChroma7/(meanChroma7+pow25To7)))
	return hueAngle(c1.B, (1+g)*c1.A), hueAngle(c2.B, (1+g)*c2.A)
}

// go-chromath is an independent CIEDE2000 implementation. Two kinds of pair are
// skipped: pairs where either colour is achromatic, and pairs whose primed hues
// are within 1e-6 of 180 degrees apart. go-chromath picks the other mean hue at
// that boundary and returns 7.2195 for Sharma pair 10, whose published value is
// 7.1792. Both kinds stay covered by TestDeltaE2000SharmaData.
func TestDeltaE2000AgreesWithChromath(t *testing.T) {
	for i, tt := range sharmaPairs {
		if math.Hypot(tt.c1.A, tt.c1.B) == 0 || math.Hypot(tt.c2.A, tt.c2.B) == 0 {
			continue
		}
		if h1, h2 := primedHues(tt.c1, tt.c2); math.Abs(math.Abs(h1-h2)-180) < 1e-6 {
			continue
		}
		want := deltae.CIE2000(
			chromath.Lab{tt.c1.L, tt.c1.A, tt.c1.B},
			chromath.Lab{tt.c2.L, tt.c2.A, tt.c2.B},
			&deltae.KLChDefault,
		)
		if got := DeltaE2000(tt.c1, tt.c2); math.Abs(got-want) > 1e-3 {
			t.Errorf("pair %d: DeltaE2000 = %.6f, go-chromath = %.6f", i+1, got, want)
		}
	}
}

func TestHueAngleRange(t *testing.T) {
	tests := []struct {
		name string
		b, a float64
		want float64
	}{
		{name: "achromatic", b: 0, a: 0, want: 0},
		{name: "positive a axis", b: 0, a: 1, want: 0},
		{name: "positive b axis", b: 1, a: 0, want: 90},
		{name: "negative a axis", b: 0, a: -1, want: 180},
		{name: "negative b axis", b: -1, a: 0, want: 270},
		{name: "tiny negative b", b: -1e-300, a: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hueAngle(tt.b, tt.a)
			if got < 0 || got >= 360 {
				t.Fatalf("hueAngle(%g, %g) = %g, outside [0, 360)", tt.b, tt.a, got)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("hueAngle(%g, %g) = %g, want %g", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
