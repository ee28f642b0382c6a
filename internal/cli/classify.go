package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/chromamatch/internal/colour"
)

type classifyOptions struct {
	palette string
	format  string
	rank    bool
	preview bool
}

// classification is the JSON form of a classify result.
type classification struct {
	Input      string           `json:"input"`
	Hex        string           `json:"hex"`
	Lab        colour.Lab       `json:"lab"`
	Palette    string           `json:"palette"`
	Label      string           `json:"label"`
	Distance   float64          `json:"distance"`
	Group      colour.ToneGroup `json:"group,omitempty"`
	Descriptor string           `json:"descriptor,omitempty"`
	Undertone  colour.Undertone `json:"undertone,omitempty"`
	Ranking    []colour.Match   `json:"ranking,omitempty"`
}

func newClassifyCmd(global *globalOptions) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify <colour>",
		Short: "Classify a single colour against a reference palette",
		Long: `Classify a single sRGB colour against one of the reference palettes.

The colour is given as a hex string (#c89678, c89678 or #c97) or as decimal
r,g,b channels (200,150,120). For the skin palette the undertone is reported
too.

Examples:
  chromamatch classify --palette skin "#c89678"
  chromamatch classify --palette iris 70,40,20
  chromamatch classify --palette hair --rank 9a6e4f`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.palette, "palette", "p", colour.PaletteSkin,
		"reference palette ("+strings.Join(colour.PaletteNames(), ", ")+")")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format (json, text)")
	cmd.Flags().BoolVar(&opts.rank, "rank", false, "list every palette entry by distance")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches (default: on for terminals)")
	cmd.Flags().Float64("undertone", colour.DefaultUndertoneMargin, "neutral undertone margin in Lab units")

	return cmd
}

func runClassify(cmd *cobra.Command, global *globalOptions, opts *classifyOptions, input string) error {
	if opts.format != formatJSON && opts.format != formatText {
		return fmt.Errorf("invalid format: %s (valid formats: %s, %s)", opts.format, formatJSON, formatText)
	}

	p, err := colour.PaletteByName(opts.palette)
	if err != nil {
		return err
	}

	rgb, err := parseColour(input)
	if err != nil {
		return err
	}

	lab := colour.ToLab(rgb)
	m := p.Nearest(lab)
	global.logger.Debug("classified colour", "input", input, "lab", lab.String(), "palette", p.Name(), "label", m.Entry.Label)

	result := classification{
		Input:      input,
		Hex:        rgb.Hex(),
		Lab:        lab,
		Palette:    p.Name(),
		Label:      m.Entry.Label,
		Distance:   m.Distance,
		Group:      m.Entry.Group,
		Descriptor: m.Entry.Descriptor,
	}
	if p == colour.SkinToneScale {
		result.Undertone = colour.EstimateUndertoneWithMargin(lab, global.config.UndertoneMargin)
	}
	if opts.rank {
		result.Ranking = rankEntries(p, lab)
	}

	out := cmd.OutOrStdout()
	if opts.format == formatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	preview := previewEnabled(cmd, opts.preview)
	input = result.Hex + " " + lab.String()
	if preview {
		input = colour.FormatLabWithPreview(lab, 2)
	}
	fmt.Fprintf(out, "Input:     %s\n", input)

	match := result.Label
	if result.Group != "" {
		match = fmt.Sprintf("%s (%s, %s)", match, result.Group, result.Descriptor)
	}
	fmt.Fprintf(out, "Match:     %s\n", match)
	fmt.Fprintf(out, "ΔE2000:    %.4f\n", result.Distance)
	if result.Undertone != "" {
		fmt.Fprintf(out, "Undertone: %s\n", result.Undertone)
	}

	if opts.rank {
		table := NewTable([]string{"#", "Label", "Hex", "ΔE2000"})
		for i, r := range result.Ranking {
			label := r.Entry.Label
			if preview {
				label = colour.ColourPreview(r.Entry.Lab.RGB(), 2) + " " + label
			}
			table.AddRow([]string{strconv.Itoa(i + 1), label, r.Entry.Lab.Hex(), fmt.Sprintf("%.4f", r.Distance)})
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, table.Render())
	}
	return nil
}

// rankEntries returns every palette entry ordered by distance from c. Equal
// distances keep declaration order.
func rankEntries(p *colour.Palette, c colour.Lab) []colour.Match {
	entries := p.Entries()
	ranked := make([]colour.Match, len(entries))
	for i, e := range entries {
		ranked[i] = colour.Match{Entry: e, Distance: colour.DeltaE2000(c, e.Lab)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}

// parseColour accepts hex (with or without #, 3 or 6 digits) or "r,g,b".
func parseColour(s string) (colour.RGB, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return colour.RGB{}, fmt.Errorf("invalid colour %q: expected r,g,b", s)
		}
		var ch [3]uint8
		for i, part := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
			if err != nil {
				return colour.RGB{}, fmt.Errorf("invalid colour %q: channel %d must be 0-255", s, i+1)
			}
			ch[i] = uint8(v)
		}
		return colour.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colour.RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return colour.RGB{R: r, G: g, B: b}, nil
}
