package colour

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ToneGroup is the coarse lightness band of a skin-tone scale entry.
type ToneGroup string

// Tone groups used by the skin-tone scale.
const (
	ToneLight  ToneGroup = "Light"
	ToneMedium ToneGroup = "Medium"
	ToneDark   ToneGroup = "Dark"
)

// Entry is a named reference colour. Group and Descriptor are only set for
// skin-tone scale entries.
type Entry struct {
	Label      string    `json:"label"`
	Lab        Lab       `json:"lab"`
	Group      ToneGroup `json:"group,omitempty"`
	Descriptor string    `json:"descriptor,omitempty"`
}

// Palette is an ordered, immutable set of reference colours. Declaration order
// decides classification ties.
type Palette struct {
	name    string
	entries []Entry
	index   map[string]int
}

// NewPalette creates a palette from entries in declaration order. Labels must be
// non-empty and unique.
func NewPalette(name string, entries []Entry) (*Palette, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("palette %q has no entries", name)
	}

	p := &Palette{
		name:    name,
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Label == "" {
			return nil, fmt.Errorf("palette %q: entry %d has an empty label", name, i)
		}
		if _, dup := p.index[e.Label]; dup {
			return nil, fmt.Errorf("palette %q: duplicate label %q", name, e.Label)
		}
		p.entries[i] = e
		p.index[e.Label] = i
	}
	return p, nil
}

// mustPalette is NewPalette for the package's static reference data.
func mustPalette(name string, entries []Entry) *Palette {
	p, err := NewPalette(name, entries)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the palette's name.
func (p *Palette) Name() string {
	return p.name
}

// Len returns the number of entries in the palette.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the palette's entries in declaration order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Lookup returns the entry with the given label.
func (p *Palette) Lookup(label string) (Entry, bool) {
	i, ok := p.index[label]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Match is the result of classifying a colour against a palette.
type Match struct {
	Entry    Entry   `json:"entry"`
	Distance float64 `json:"distance"`
}

// Nearest returns the entry with the smallest CIEDE2000 distance from c. The
// scan uses a strict comparison, so the first-declared entry wins ties.
func (p *Palette) Nearest(c Lab) Match {
	best := 0
	bestDist := math.Inf(1)
	for i, e := range p.entries {
		if d := DeltaE2000(c, e.Lab); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return Match{Entry: p.entries[best], Distance: bestDist}
}

// Classify returns the label of the palette entry nearest to c.
func Classify(c Lab, p *Palette) string {
	return p.Nearest(c).Entry.Label
}

// String returns a human-readable listing of the palette.
func (p *Palette) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d entries):\n", p.name, len(p.entries))
	for i, e := range p.entries {
		fmt.Fprintf(&sb, "  %2d: %-22s %s\n", i+1, e.Label, e.Lab)
	}
	return sb.String()
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Entries []Entry `json:"entries"`
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(PaletteJSON{
		Name:    p.name,
		Count:   len(p.entries),
		Entries: p.entries,
	}, "", "  ")
}
