package colour

import (
	"strings"
	"testing"
)

func TestColourPreview(t *testing.T) {
	got := ColourPreview(RGB{R: 200, G: 150, B: 120}, 4)
	want := "\033[48;2;200;150;120m    \033[0m"
	if got != want {
		t.Errorf("ColourPreview() = %q, want %q", got, want)
	}

	if got := ColourPreview(RGB{}, 0); !strings.Contains(got, strings.Repeat(" ", defaultWidth)) {
		t.Errorf("ColourPreview() with zero width = %q, want default width", got)
	}
}

func TestFormatLabWithPreview(t *testing.T) {
	c := ToLab(RGB{R: 150, G: 60, B: 40})
	got := FormatLabWithPreview(c, 2)

	if !strings.HasPrefix(got, ColourPreview(RGB{R: 150, G: 60, B: 40}, 2)+" ") {
		t.Errorf("FormatLabWithPreview() = %q, want a leading swatch", got)
	}
	if !strings.HasSuffix(got, " #963c28 "+c.String()) {
		t.Errorf("FormatLabWithPreview() = %q, want hex then Lab", got)
	}
}
