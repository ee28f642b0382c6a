package cli

import (
	"context"
	"encoding/json"
	"fmt"
	stdimage "image"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/chromamatch/internal/analysis"
	"github.com/jmylchreest/chromamatch/internal/colour"
	"github.com/jmylchreest/chromamatch/internal/config"
	"github.com/jmylchreest/chromamatch/internal/image"
	"github.com/jmylchreest/chromamatch/internal/mask"
)

// Output formats.
const (
	formatJSON = "json"
	formatText = "text"
)

type analyzeOptions struct {
	labels   string
	skin     string
	leftEye  string
	rightEye string
	hair     string

	format  string
	details bool
	preview bool
	output  string
	timeout time.Duration
}

func newAnalyzeCmd(global *globalOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Classify the skin, eye and hair colour of a segmented photo",
		Long: `Classify the skin tone, undertone, eye colour and hair colour of a photo.

Regions are given either as a single segmentation label map, where each pixel's
grey value (or palette index) is a class id, or as one binary mask image per
region, where pixels with a grey level of 128 or more are selected. Masks must
be the same size as the photo. A missing region is treated as empty.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Analyse using a face-parsing label map
  chromamatch analyze --labels face_labels.png face.jpg

  # Analyse using separate binary masks
  chromamatch analyze --skin skin.png --left-eye leye.png --right-eye reye.png --hair hair.png face.jpg

  # Human-readable output with per-region details and colour swatches
  chromamatch analyze --labels face_labels.png --format text --details --preview face.jpg

  # Label maps using different class ids
  chromamatch analyze --labels map.png --label-skin 2 --label-hair 10 face.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, global, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.labels, "labels", "l", "", "segmentation label map image")
	f.StringVar(&opts.skin, "skin", "", "skin mask image")
	f.StringVar(&opts.leftEye, "left-eye", "", "left eye mask image")
	f.StringVar(&opts.rightEye, "right-eye", "", "right eye mask image")
	f.StringVar(&opts.hair, "hair", "", "hair mask image")
	f.StringVarP(&opts.format, "format", "f", formatJSON, "output format (json, text)")
	f.BoolVar(&opts.details, "details", false, "include per-region dominant colours and distances")
	f.BoolVar(&opts.preview, "preview", false, "show colour swatches in text output (default: on for terminals)")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	f.DurationVar(&opts.timeout, "timeout", 0, "abort analysis after this long (0 disables)")

	f.Int("clusters", colour.DefaultClusters, "k-means clusters per region")
	f.Int64("seed", colour.DefaultSeed, "k-means seed")
	f.Float64("undertone", colour.DefaultUndertoneMargin, "neutral undertone margin in Lab units")
	f.Int("label-skin", config.DefaultLabelSkin, "skin class id in the label map")
	f.Int("label-left-eye", config.DefaultLabelLeftEye, "left eye class id in the label map")
	f.Int("label-right-eye", config.DefaultLabelRightEye, "right eye class id in the label map")
	f.Int("label-hair", config.DefaultLabelHair, "hair class id in the label map")

	return cmd
}

func runAnalyze(cmd *cobra.Command, global *globalOptions, opts *analyzeOptions, imagePath string) error {
	logger := global.logger

	if opts.format != formatJSON && opts.format != formatText {
		return fmt.Errorf("invalid format: %s (valid formats: %s, %s)", opts.format, formatJSON, formatText)
	}

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	masks, err := loadMasks(logger, opts, global.config.Labels)
	if err != nil {
		return err
	}

	width, height, err := image.GetImageDimensions(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image header: %w", err)
	}
	logger.Debug("loading image", "path", imagePath, "width", width, "height", height)
	img, err := image.NewFileLoader().Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	analyzer, err := analysis.NewBuilder().
		WithConfig(analysis.Config{
			Extractor:       global.config.ExtractorConfig(),
			UndertoneMargin: global.config.UndertoneMargin,
		}).
		WithLogger(logger).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	report, err := analyzer.AnalyzeReport(ctx, img, masks)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var out string
	switch opts.format {
	case formatJSON:
		var v any = report.Result
		if opts.details {
			v = report
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		out = string(data) + "\n"
	case formatText:
		preview := opts.output == "" && previewEnabled(cmd, opts.preview)
		out = formatReportText(report, opts.details, preview)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(out), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("result written", "path", opts.output)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// loadMasks reads either the label map or the per-region mask images.
func loadMasks(logger hclog.Logger, opts *analyzeOptions, labels config.Labels) (analysis.Masks, error) {
	perRegion := opts.skin != "" || opts.leftEye != "" || opts.rightEye != "" || opts.hair != ""

	switch {
	case opts.labels != "" && perRegion:
		return analysis.Masks{}, fmt.Errorf("--labels cannot be combined with per-region mask flags")
	case opts.labels != "":
		img, err := mask.LoadLabelMap(opts.labels)
		if err != nil {
			return analysis.Masks{}, err
		}
		classes := map[string]uint8{
			string(analysis.RegionSkin):     uint8(labels.Skin),
			string(analysis.RegionLeftEye):  uint8(labels.LeftEye),
			string(analysis.RegionRightEye): uint8(labels.RightEye),
			string(analysis.RegionHair):     uint8(labels.Hair),
		}
		checkLabelClasses(logger, opts.labels, img, classes)
		return analysis.MasksFromMap(mask.SplitLabels(img, classes)), nil
	case perRegion:
		var masks analysis.Masks
		targets := []struct {
			path string
			dst  **mask.Mask
		}{
			{opts.skin, &masks.Skin},
			{opts.leftEye, &masks.LeftEye},
			{opts.rightEye, &masks.RightEye},
			{opts.hair, &masks.Hair},
		}
		for _, t := range targets {
			if t.path == "" {
				continue
			}
			m, err := mask.Load(t.path)
			if err != nil {
				return analysis.Masks{}, err
			}
			*t.dst = m
		}
		return masks, nil
	default:
		return analysis.Masks{}, fmt.Errorf("no regions given: use --labels or at least one of --skin, --left-eye, --right-eye, --hair")
	}
}

// checkLabelClasses logs the classes present in a label map and warns about
// configured class ids it does not contain. Those regions end up empty.
func checkLabelClasses(logger hclog.Logger, path string, img stdimage.Image, classes map[string]uint8) {
	present := mask.Classes(img)

	ids := make([]int, 0, len(present))
	for id := range present {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	logger.Debug("label map loaded", "path", path, "classes", ids)

	for _, region := range analysis.Regions() {
		class := classes[string(region)]
		if present[class] == 0 {
			logger.Warn("class id not present in label map", "region", region, "class", class, "path", path)
		}
	}
}

// formatReportText renders a report for humans.
func formatReportText(report *analysis.Report, details, preview bool) string {
	res := report.Result
	var sb strings.Builder

	swatch := func(region analysis.Region) string {
		if !preview {
			return ""
		}
		rr, _ := report.Region(region)
		return colour.ColourPreview(rr.Dominant.RGB(), 2) + " "
	}

	fmt.Fprintf(&sb, "Skin tone:   %s%s (%s, %s)\n", swatch(analysis.RegionSkin), res.SkinTone, res.ToneGroup, res.Descriptor)
	fmt.Fprintf(&sb, "Undertone:   %s\n", res.Undertone)
	fmt.Fprintf(&sb, "Eye colour:  %s%s\n", swatch(analysis.RegionLeftEye), res.EyeColour)
	fmt.Fprintf(&sb, "Hair colour: %s%s\n", swatch(analysis.RegionHair), res.HairColour)

	if !details {
		return sb.String()
	}

	headers := []string{"Region", "Pixels", "Lab", "Hex", "Label", "ΔE2000"}
	if preview {
		headers = append([]string{""}, headers...)
	}
	table := NewTable(headers)
	for _, rr := range report.Regions {
		row := []string{
			string(rr.Region),
			fmt.Sprintf("%d", rr.Pixels),
			fmt.Sprintf("%.2f, %.2f, %.2f", rr.Dominant.L, rr.Dominant.A, rr.Dominant.B),
			rr.Hex,
			rr.Label,
			fmt.Sprintf("%.2f", rr.Distance),
		}
		if rr.Empty() {
			row[1] = "0 (empty)"
		}
		if preview {
			row = append([]string{colour.ColourPreview(rr.Dominant.RGB(), 2)}, row...)
		}
		table.AddRow(row)
	}

	sb.WriteString("\n")
	sb.WriteString(table.Render())
	return sb.String()
}
