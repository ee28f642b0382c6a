package colour

import (
	"context"
	"errors"
	"math"
	"testing"
)

// repeat returns n copies of p.
func repeat(p RGB, n int) []RGB {
	out := make([]RGB, n)
	for i := range out {
		out[i] = p
	}
	return out
}

func labClose(a, b Lab, tol float64) bool {
	return math.Abs(a.L-b.L) <= tol && math.Abs(a.A-b.A) <= tol && math.Abs(a.B-b.B) <= tol
}

func TestDominantColourEmpty(t *testing.T) {
	if got := DominantColour(nil, 2); got != (Lab{}) {
		t.Errorf("DominantColour(nil) = %v, want zero Lab", got)
	}
	if got := DominantColour([]RGB{}, 2); !got.IsZero() {
		t.Errorf("DominantColour(empty) = %v, want zero Lab", got)
	}
}

func TestDominantColourSinglePixel(t *testing.T) {
	p := RGB{R: 200, G: 150, B: 120}
	for _, k := range []int{1, 2, 5} {
		if got, want := DominantColour([]RGB{p}, k), ToLab(p); got != want {
			t.Errorf("k=%d: DominantColour(single) = %v, want exactly %v", k, got, want)
		}
	}
}

func TestDominantColourPicksMajorityCluster(t *testing.T) {
	skin := RGB{R: 200, G: 150, B: 120}
	shadow := RGB{R: 60, G: 40, B: 30}

	tests := []struct {
		name   string
		pixels []RGB
		want   RGB
	}{
		{name: "majority first", pixels: append(repeat(skin, 70), repeat(shadow, 30)...), want: skin},
		{name: "majority last", pixels: append(repeat(shadow, 30), repeat(skin, 70)...), want: skin},
		{name: "shadow majority", pixels: append(repeat(skin, 10), repeat(shadow, 90)...), want: shadow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DominantColour(tt.pixels, 2)
			if !labClose(got, ToLab(tt.want), 1e-9) {
				t.Errorf("DominantColour() = %v, want %v", got, ToLab(tt.want))
			}
		})
	}
}

func TestDominantColourSuppressesOutliers(t *testing.T) {
	// A noisy skin patch with a few specular highlights. The mean would be pulled
	// towards white; the majority cluster should not be.
	var pixels []RGB
	for i := 0; i < 200; i++ {
		d := uint8(i % 7)
		pixels = append(pixels, RGB{R: 195 + d, G: 148 + d/2, B: 118 + d/3})
	}
	pixels = append(pixels, repeat(RGB{255, 255, 255}, 40)...)

	got := DominantColour(pixels, 2)
	target := ToLab(RGB{R: 198, G: 149, B: 119})
	if d := DeltaE2000(got, target); d > 2 {
		t.Errorf("dominant %v is %.2f ΔE from the skin patch %v", got, d, target)
	}
}

func TestDominantColourReproducible(t *testing.T) {
	var pixels []RGB
	for i := 0; i < 500; i++ {
		pixels = append(pixels, RGB{R: uint8(i * 7 % 256), G: uint8(i * 13 % 256), B: uint8(i * 29 % 256)})
	}

	first := DominantColour(pixels, 3)
	for i := 0; i < 5; i++ {
		if got := DominantColour(pixels, 3); got != first {
			t.Fatalf("run %d: DominantColour() = %v, first run %v", i, got, first)
		}
	}
}

func TestDominantColourFewerPixelsThanClusters(t *testing.T) {
	pixels := []RGB{{10, 20, 30}, {200, 100, 50}}

	e := NewKMeansExtractor()
	partition, err := e.Partition(context.Background(), pixels, 5)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(partition) != 2 {
		t.Fatalf("expected cluster count reduced to 2, got %d", len(partition))
	}

	// Equal sizes resolve to the lowest cluster index.
	got, err := e.Dominant(context.Background(), pixels, 5)
	if err != nil {
		t.Fatalf("Dominant failed: %v", err)
	}
	if got != partition[0].Centre {
		t.Errorf("Dominant() = %v, want cluster 0 centre %v", got, partition[0].Centre)
	}
}

func TestPartitionCoversAllPixels(t *testing.T) {
	var pixels []RGB
	pixels = append(pixels, repeat(RGB{250, 0, 0}, 40)...)
	pixels = append(pixels, repeat(RGB{0, 250, 0}, 35)...)
	pixels = append(pixels, repeat(RGB{0, 0, 250}, 25)...)

	partition, err := NewKMeansExtractor().Partition(context.Background(), pixels, 3)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}

	total := 0
	sizes := map[int]bool{}
	for _, c := range partition {
		total += c.Size
		sizes[c.Size] = true
	}
	if total != len(pixels) {
		t.Errorf("cluster sizes sum to %d, want %d", total, len(pixels))
	}
	for _, want := range []int{40, 35, 25} {
		if !sizes[want] {
			t.Errorf("expected a cluster of size %d, got %+v", want, partition)
		}
	}
}

func TestDominantUniformRegion(t *testing.T) {
	p := RGB{R: 70, G: 40, B: 20}
	got := DominantColour(repeat(p, 64), 2)
	if !labClose(got, ToLab(p), 1e-9) {
		t.Errorf("DominantColour(uniform) = %v, want %v", got, ToLab(p))
	}
}

func TestDominantCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKMeansExtractor().Dominant(ctx, repeat(RGB{1, 2, 3}, 10), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Dominant() error = %v, want context.Canceled", err)
	}
}

func TestDominantDefaultClusterCount(t *testing.T) {
	pixels := append(repeat(RGB{200, 150, 120}, 6), repeat(RGB{20, 20, 20}, 4)...)
	e := NewKMeansExtractor()

	partition, err := e.Partition(context.Background(), pixels, 0)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(partition) != DefaultClusters {
		t.Errorf("k=0 produced %d clusters, want %d", len(partition), DefaultClusters)
	}
}

func TestExtractorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExtractorConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*ExtractorConfig) {}},
		{name: "zero clusters", mutate: func(c *ExtractorConfig) { c.Clusters = 0 }, wantErr: true},
		{name: "too many clusters", mutate: func(c *ExtractorConfig) { c.Clusters = MaxClusters + 1 }, wantErr: true},
		{name: "zero inits", mutate: func(c *ExtractorConfig) { c.Inits = 0 }, wantErr: true},
		{name: "zero iterations", mutate: func(c *ExtractorConfig) { c.MaxIterations = 0 }, wantErr: true},
		{name: "negative tolerance", mutate: func(c *ExtractorConfig) { c.Tolerance = -1 }, wantErr: true},
		{name: "zero tolerance", mutate: func(c *ExtractorConfig) { c.Tolerance = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, err := NewKMeansExtractorWithConfig(cfg); (err != nil) != tt.wantErr {
				t.Errorf("NewKMeansExtractorWithConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
