// Package analysis composes colour extraction, palette classification and
// undertone estimation over the segmented regions of a face.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/chromamatch/internal/colour"
	chromaimage "github.com/jmylchreest/chromamatch/internal/image"
)

// ErrDimensionMismatch is returned when a region mask is not the same size as the
// image it selects from.
var ErrDimensionMismatch = errors.New("mask dimensions do not match image")

// Config holds the analysis tunables.
type Config struct {
	// Extractor configures dominant colour clustering.
	Extractor colour.ExtractorConfig

	// UndertoneMargin is the neutral band used by undertone estimation.
	UndertoneMargin float64
}

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() Config {
	return Config{
		Extractor:       colour.DefaultExtractorConfig(),
		UndertoneMargin: colour.DefaultUndertoneMargin,
	}
}

// Builder provides a fluent interface for constructing an Analyzer.
type Builder struct {
	config Config
	logger hclog.Logger
}

// NewBuilder creates a new Analyzer builder with default settings.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig sets the analysis configuration.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithLogger sets the logger used for per-region debug output.
func (b *Builder) WithLogger(logger hclog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and constructs the Analyzer.
func (b *Builder) Build() (*Analyzer, error) {
	if b.config.UndertoneMargin < 0 {
		return nil, fmt.Errorf("undertone margin cannot be negative, got %g", b.config.UndertoneMargin)
	}

	extractor, err := colour.NewKMeansExtractorWithConfig(b.config.Extractor)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Analyzer{
		extractor: extractor,
		margin:    b.config.UndertoneMargin,
		logger:    logger.Named("analysis"),
	}, nil
}

// Analyzer classifies skin tone, undertone, eye colour and hair colour. It holds
// no per-call state and is safe for concurrent use.
type Analyzer struct {
	extractor *colour.KMeansExtractor
	margin    float64
	logger    hclog.Logger
}

// New returns an Analyzer with the default configuration.
func New() *Analyzer {
	a, err := NewBuilder().Build()
	if err != nil {
		panic(err)
	}
	return a
}

// Analyze classifies the regions of img selected by masks. Every non-nil mask
// must match the image size, otherwise ErrDimensionMismatch is returned. Empty
// regions are classified from the zero Lab sentinel rather than failing.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image, masks Masks) (*Result, error) {
	report, err := a.AnalyzeReport(ctx, img, masks)
	if err != nil {
		return nil, err
	}
	return report.Result, nil
}

// AnalyzeReport is Analyze, also returning the per-region values.
func (a *Analyzer) AnalyzeReport(ctx context.Context, img image.Image, masks Masks) (*Report, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if err := masks.validate(img.Bounds().Size()); err != nil {
		return nil, err
	}

	pix := chromaimage.ToNRGBA(img)
	regions := Regions()
	reports := make([]RegionReport, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range regions {
		i, r := i, r
		g.Go(func() error {
			pixels := gather(pix, masks.For(r))
			dominant, err := a.extractor.Dominant(gctx, pixels, a.extractor.Config().Clusters)
			if err != nil {
				return fmt.Errorf("failed to extract %s colour: %w", r, err)
			}
			reports[i] = RegionReport{
				Region:   r,
				Pixels:   len(pixels),
				Dominant: dominant,
				Hex:      dominant.Hex(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	palettes := map[Region]*colour.Palette{
		RegionSkin:     colour.SkinToneScale,
		RegionLeftEye:  colour.IrisColours,
		RegionRightEye: colour.IrisColours,
		RegionHair:     colour.HairColours,
	}
	for i := range reports {
		rr := &reports[i]
		p := palettes[rr.Region]
		m := p.Nearest(rr.Dominant)
		rr.Palette = p.Name()
		rr.Label = m.Entry.Label
		rr.Distance = m.Distance

		if rr.Empty() {
			a.logger.Debug("region is empty, classifying zero sentinel", "region", rr.Region)
		}
		a.logger.Debug("classified region",
			"region", rr.Region,
			"pixels", rr.Pixels,
			"lab", rr.Dominant.String(),
			"label", rr.Label,
			"distance", rr.Distance)
	}

	skin := reports[0]
	entry, _ := colour.SkinToneScale.Lookup(skin.Label)

	result := &Result{
		SkinTone:   skin.Label,
		ToneGroup:  entry.Group,
		Descriptor: entry.Descriptor,
		Undertone:  colour.EstimateUndertoneWithMargin(skin.Dominant, a.margin),
		EyeColour:  EyeColour{Left: reports[1].Label, Right: reports[2].Label},
		HairColour: reports[3].Label,
	}

	a.logger.Debug("analysis complete",
		"skin_tone", result.SkinTone,
		"undertone", result.Undertone,
		"eye_color", result.EyeColour.String(),
		"hair_color", result.HairColour)

	return &Report{Result: result, Regions: reports}, nil
}
