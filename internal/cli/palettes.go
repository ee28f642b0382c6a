package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/chromamatch/internal/colour"
)

type palettesOptions struct {
	format  string
	preview bool
}

func newPalettesCmd(_ *globalOptions) *cobra.Command {
	opts := &palettesOptions{}

	cmd := &cobra.Command{
		Use:   "palettes [name]",
		Short: "List the reference palettes",
		Long: `List the reference palettes used for classification, in declaration
order. Declaration order decides ties during classification.

Examples:
  chromamatch palettes
  chromamatch palettes skin --preview
  chromamatch palettes iris --format json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: colour.PaletteNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalettes(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format (json, text)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches (default: on for terminals)")

	return cmd
}

func runPalettes(cmd *cobra.Command, opts *palettesOptions, args []string) error {
	if opts.format != formatJSON && opts.format != formatText {
		return fmt.Errorf("invalid format: %s (valid formats: %s, %s)", opts.format, formatJSON, formatText)
	}

	names := []string{colour.PaletteSkin, colour.PaletteIris, colour.PaletteHair}
	if len(args) == 1 {
		names = args[:1]
	}

	palettes := make([]*colour.Palette, 0, len(names))
	for _, name := range names {
		p, err := colour.PaletteByName(name)
		if err != nil {
			return err
		}
		palettes = append(palettes, p)
	}

	out := cmd.OutOrStdout()

	if opts.format == formatJSON {
		docs := make([]colour.PaletteJSON, len(palettes))
		for i, p := range palettes {
			docs[i] = colour.PaletteJSON{Name: p.Name(), Count: p.Len(), Entries: p.Entries()}
		}
		var v any = docs
		if len(docs) == 1 {
			v = docs[0]
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode palettes: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	preview := previewEnabled(cmd, opts.preview)
	for i, p := range palettes {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%d entries)\n\n", p.Name(), p.Len())

		headers := []string{"Label", "L", "a", "b", "Hex"}
		if p == colour.SkinToneScale {
			headers = append(headers, "Group", "Descriptor")
		}
		if preview {
			headers = append([]string{""}, headers...)
		}

		table := NewTable(headers)
		for _, e := range p.Entries() {
			row := []string{
				e.Label,
				fmt.Sprintf("%.2f", e.Lab.L),
				fmt.Sprintf("%.2f", e.Lab.A),
				fmt.Sprintf("%.2f", e.Lab.B),
				e.Lab.Hex(),
			}
			if p == colour.SkinToneScale {
				row = append(row, string(e.Group), e.Descriptor)
			}
			if preview {
				row = append([]string{colour.ColourPreview(e.Lab.RGB(), 2)}, row...)
			}
			table.AddRow(row)
		}
		fmt.Fprint(out, table.Render())
	}
	return nil
}
