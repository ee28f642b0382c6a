package colour

import (
	"fmt"
	"sort"
	"strings"
)

// Palette names accepted by PaletteByName.
const (
	PaletteSkin = "skin"
	PaletteIris = "iris"
	PaletteHair = "hair"
)

// SkinToneScale is the 10-level Monk Skin Tone scale. Lab values are the scale's
// published reference measurements.
var SkinToneScale = mustPalette("Monk Skin Tone", []Entry{
	{Label: "MST 1", Lab: Lab{94.2884, 1.8519, 5.5425}, Group: ToneLight, Descriptor: "Porcelain / Very Light"},
	{Label: "MST 2", Lab: Lab{92.251, 1.9045, 7.7661}, Group: ToneLight, Descriptor: "Ivory / Fair"},
	{Label: "MST 3", Lab: Lab{93.0112, -0.1348, 14.0799}, Group: ToneLight, Descriptor: "Beige / Light"},
	{Label: "MST 4", Lab: Lab{87.342, 1.1245, 16.8999}, Group: ToneMedium, Descriptor: "Sand / Light Medium"},
	{Label: "MST 5", Lab: Lab{77.9011, 3.4755, 23.1345}, Group: ToneMedium, Descriptor: "Honey / Medium"},
	{Label: "MST 6", Lab: Lab{54.7394, 7.7105, 27.3153}, Group: ToneMedium, Descriptor: "Caramel / Medium Tan"},
	{Label: "MST 7", Lab: Lab{42.6321, 11.4027, 20.1281}, Group: ToneDark, Descriptor: "Chestnut / Tan"},
	{Label: "MST 8", Lab: Lab{30.952, 11.0444, 13.7036}, Group: ToneDark, Descriptor: "Mocha / Deep"},
	{Label: "MST 9", Lab: Lab{21.0691, 2.6924, 5.9636}, Group: ToneDark, Descriptor: "Espresso / Dark"},
	{Label: "MST 10", Lab: Lab{14.7252, 1.9748, 3.7045}, Group: ToneDark, Descriptor: "Ebony / Very Dark"},
})

// IrisColours is the iris colour set, defined in sRGB.
var IrisColours = mustPalette("Iris", rgbEntries([]namedRGB{
	{"Dark Blue", RGB{97, 143, 159}},
	{"Light Blue", RGB{126, 173, 186}},
	{"Dark Green", RGB{91, 113, 82}},
	{"Light Green", RGB{141, 140, 106}},
	{"Dark Hazel", RGB{90, 60, 40}},
	{"Light Brown (Hazel)", RGB{175, 134, 107}},
	{"Black", RGB{30, 30, 30}},
	{"Dark Brown", RGB{70, 40, 20}},
	{"Gray", RGB{150, 150, 150}},
}))

// HairColours is the hair colour set, defined in sRGB.
var HairColours = mustPalette("Hair", rgbEntries([]namedRGB{
	{"Black", RGB{20, 20, 20}},
	{"Dark Brown", RGB{60, 40, 30}},
	{"Brown", RGB{150, 110, 80}},
	{"Dark Blonde", RGB{178, 128, 65}},
	{"Blonde", RGB{220, 200, 140}},
	{"Red", RGB{150, 60, 40}},
	{"Gray", RGB{160, 160, 160}},
}))

type namedRGB struct {
	label string
	rgb   RGB
}

func rgbEntries(colours []namedRGB) []Entry {
	entries := make([]Entry, len(colours))
	for i, c := range colours {
		entries[i] = Entry{Label: c.label, Lab: ToLab(c.rgb)}
	}
	return entries
}

var palettesByName = map[string]*Palette{
	PaletteSkin: SkinToneScale,
	PaletteIris: IrisColours,
	PaletteHair: HairColours,
}

// PaletteNames returns the names accepted by PaletteByName, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(palettesByName))
	for name := range palettesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PaletteByName returns a reference palette by its short name (case-insensitive).
func PaletteByName(name string) (*Palette, error) {
	p, ok := palettesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown palette: %s (valid palettes: %s)", name, strings.Join(PaletteNames(), ", "))
	}
	return p, nil
}
