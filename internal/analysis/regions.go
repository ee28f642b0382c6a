package analysis

import (
	"fmt"
	"image"

	"github.com/jmylchreest/chromamatch/internal/colour"
	"github.com/jmylchreest/chromamatch/internal/mask"
)

// Region names a segmented facial region.
type Region string

// Facial regions, in analysis order.
const (
	RegionSkin     Region = "skin"
	RegionLeftEye  Region = "left_eye"
	RegionRightEye Region = "right_eye"
	RegionHair     Region = "hair"
)

// Regions returns every region in analysis order.
func Regions() []Region {
	return []Region{RegionSkin, RegionLeftEye, RegionRightEye, RegionHair}
}

// Masks holds one selector per region. A nil mask selects nothing.
type Masks struct {
	Skin     *mask.Mask
	LeftEye  *mask.Mask
	RightEye *mask.Mask
	Hair     *mask.Mask
}

// MasksFromMap builds Masks from a map keyed by region name, as returned by
// mask.LoadLabels.
func MasksFromMap(m map[string]*mask.Mask) Masks {
	return Masks{
		Skin:     m[string(RegionSkin)],
		LeftEye:  m[string(RegionLeftEye)],
		RightEye: m[string(RegionRightEye)],
		Hair:     m[string(RegionHair)],
	}
}

// For returns the mask for region r.
func (m Masks) For(r Region) *mask.Mask {
	switch r {
	case RegionSkin:
		return m.Skin
	case RegionLeftEye:
		return m.LeftEye
	case RegionRightEye:
		return m.RightEye
	case RegionHair:
		return m.Hair
	default:
		return nil
	}
}

// validate checks every non-nil mask against the image size.
func (m Masks) validate(size image.Point) error {
	for _, r := range Regions() {
		mk := m.For(r)
		if mk == nil {
			continue
		}
		if got := mk.Size(); got != size {
			return fmt.Errorf("%w: %s mask is %dx%d, image is %dx%d",
				ErrDimensionMismatch, r, got.X, got.Y, size.X, size.Y)
		}
	}
	return nil
}

// gather returns the pixels of img selected by mk in row-major order. img must
// have its origin at (0, 0).
func gather(img *image.NRGBA, mk *mask.Mask) []colour.RGB {
	n := mk.Count()
	if n == 0 {
		return nil
	}

	pixels := make([]colour.RGB, 0, n)
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if !mk.At(x, y) {
				continue
			}
			i := x * 4
			pixels = append(pixels, colour.RGB{R: row[i], G: row[i+1], B: row[i+2]})
		}
	}
	return pixels
}
