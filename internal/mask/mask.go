// Package mask provides boolean region selectors over image pixels and loaders
// that build them from segmentation output.
package mask

import (
	"fmt"
	"image"
	"image/color"

	chromaimage "github.com/jmylchreest/chromamatch/internal/image"
)

// Threshold is the grey level at or above which a binary mask pixel is selected.
const Threshold = 128

// Mask selects a subset of an image's pixels. Coordinates are relative to the
// image origin. A nil *Mask selects nothing.
type Mask struct {
	width  int
	height int
	bits   []bool
}

// New creates an empty mask of the given size.
func New(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:  width,
		height: height,
		bits:   make([]bool, width*height),
	}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int {
	if m == nil {
		return 0
	}
	return m.width
}

// Height returns the mask height in pixels.
func (m *Mask) Height() int {
	if m == nil {
		return 0
	}
	return m.height
}

// Size returns the mask dimensions.
func (m *Mask) Size() image.Point {
	return image.Point{X: m.Width(), Y: m.Height()}
}

// Set marks (x, y) as selected or not. Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, selected bool) {
	if !m.inside(x, y) {
		return
	}
	m.bits[y*m.width+x] = selected
}

// At reports whether (x, y) is selected.
func (m *Mask) At(x, y int) bool {
	if !m.inside(x, y) {
		return false
	}
	return m.bits[y*m.width+x]
}

// Fill selects every pixel in r, clipped to the mask.
func (m *Mask) Fill(r image.Rectangle) {
	if m == nil {
		return
	}
	r = r.Intersect(image.Rect(0, 0, m.width, m.height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.bits[y*m.width+x] = true
		}
	}
}

// Count returns the number of selected pixels.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

func (m *Mask) inside(x, y int) bool {
	return m != nil && x >= 0 && y >= 0 && x < m.width && y < m.height
}

// FromImage builds a mask from a binary mask image: a pixel is selected when its
// grey level is at least Threshold.
func FromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y >= Threshold {
				m.bits[(y-b.Min.Y)*m.width+(x-b.Min.X)] = true
			}
		}
	}
	return m
}

// FromLabels builds a mask from a segmentation label map, selecting the pixels
// whose class id equals class. For paletted images the class id is the palette
// index; otherwise it is the pixel's grey level.
func FromLabels(img image.Image, class uint8) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	classOf := labelReader(img)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if classOf(x, y) == class {
				m.bits[(y-b.Min.Y)*m.width+(x-b.Min.X)] = true
			}
		}
	}
	return m
}

// Classes returns the distinct class ids present in a label map with their pixel
// counts.
func Classes(img image.Image) map[uint8]int {
	b := img.Bounds()
	classOf := labelReader(img)
	counts := make(map[uint8]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			counts[classOf(x, y)]++
		}
	}
	return counts
}

func labelReader(img image.Image) func(x, y int) uint8 {
	switch im := img.(type) {
	case *image.Paletted:
		return im.ColorIndexAt
	case *image.Gray:
		return func(x, y int) uint8 { return im.GrayAt(x, y).Y }
	default:
		return func(x, y int) uint8 {
			return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
		}
	}
}

// Load reads a binary mask image from disk.
func Load(path string) (*Mask, error) {
	img, err := chromaimage.NewRawFileLoader().Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask: %w", err)
	}
	return FromImage(img), nil
}

// LoadLabelMap reads a segmentation label map from disk exactly as stored.
func LoadLabelMap(path string) (image.Image, error) {
	img, err := chromaimage.NewRawFileLoader().Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load label map: %w", err)
	}
	return img, nil
}

// SplitLabels returns one mask per requested class of a label map, keyed like
// classes.
func SplitLabels(img image.Image, classes map[string]uint8) map[string]*Mask {
	masks := make(map[string]*Mask, len(classes))
	for name, class := range classes {
		masks[name] = FromLabels(img, class)
	}
	return masks
}

// LoadLabels reads a label map from disk and returns one mask per requested
// class, keyed like classes.
func LoadLabels(path string, classes map[string]uint8) (map[string]*Mask, error) {
	img, err := LoadLabelMap(path)
	if err != nil {
		return nil, err
	}
	return SplitLabels(img, classes), nil
}
