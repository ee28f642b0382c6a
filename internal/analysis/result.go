package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/jmylchreest/chromamatch/internal/colour"
)

// EyeColour is the iris classification of both eyes. It serialises as a single
// label when the eyes agree and as a [left, right] pair otherwise.
type EyeColour struct {
	Left  string
	Right string
}

// Single reports whether both eyes share one label.
func (e EyeColour) Single() bool {
	return e.Left == e.Right
}

// Labels returns the label once when both eyes agree, otherwise left then right.
func (e EyeColour) Labels() []string {
	if e.Single() {
		return []string{e.Left}
	}
	return []string{e.Left, e.Right}
}

// String returns the single label, or "left / right" for a pair.
func (e EyeColour) String() string {
	if e.Single() {
		return e.Left
	}
	return e.Left + " / " + e.Right
}

// MarshalJSON implements json.Marshaler.
func (e EyeColour) MarshalJSON() ([]byte, error) {
	if e.Single() {
		return json.Marshal(e.Left)
	}
	return json.Marshal([2]string{e.Left, e.Right})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EyeColour) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		e.Left, e.Right = single, single
		return nil
	}

	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("eye_color must be a string or a two-element array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("eye_color array must have 2 elements, got %d", len(pair))
	}
	e.Left, e.Right = pair[0], pair[1]
	return nil
}

// Result is the classification of one subject.
type Result struct {
	SkinTone   string           `json:"skin_tone"`
	ToneGroup  colour.ToneGroup `json:"tone_group"`
	Descriptor string           `json:"descriptor"`
	Undertone  colour.Undertone `json:"undertone"`
	EyeColour  EyeColour        `json:"eye_color"`
	HairColour string           `json:"hair_color"`
}

// RegionReport holds the intermediate values for one facial region.
type RegionReport struct {
	Region   Region     `json:"region"`
	Pixels   int        `json:"pixels"`
	Dominant colour.Lab `json:"dominant"`
	Hex      string     `json:"hex"`
	Palette  string     `json:"palette"`
	Label    string     `json:"label"`
	Distance float64    `json:"distance"`
}

// Empty reports whether the region had no pixels, in which case Dominant is the
// zero Lab sentinel.
func (r RegionReport) Empty() bool {
	return r.Pixels == 0
}

// Report is a Result together with the per-region values it was derived from.
type Report struct {
	Result  *Result        `json:"result"`
	Regions []RegionReport `json:"regions"`
}

// Region returns the report for region r.
func (r *Report) Region(region Region) (RegionReport, bool) {
	for _, rr := range r.Regions {
		if rr.Region == region {
			return rr, true
		}
	}
	return RegionReport{}, false
}
