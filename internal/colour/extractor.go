package colour

import "fmt"

// Clustering defaults. DefaultClusters and DefaultSeed are tunables: two clusters
// separate a region's true colour from boundary, shadow and highlight pixels, and
// the fixed seed makes extraction reproducible.
const (
	DefaultClusters      = 2
	DefaultSeed          = 42
	DefaultInits         = 10
	DefaultMaxIterations = 300
	DefaultTolerance     = 1e-4
)

// MaxClusters bounds the cluster count accepted by ExtractorConfig.
const MaxClusters = 64

// ExtractorConfig holds configuration for dominant colour extraction.
type ExtractorConfig struct {
	// Clusters is the number of k-means clusters per region.
	Clusters int

	// Seed pins the pseudorandom source used for k-means++ seeding.
	Seed int64

	// Inits is the number of independent seedings; the run with the lowest
	// inertia wins.
	Inits int

	// MaxIterations caps Lloyd iterations per seeding.
	MaxIterations int

	// Tolerance stops iteration once every centre moves less than this many
	// Lab units.
	Tolerance float64
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Clusters:      DefaultClusters,
		Seed:          DefaultSeed,
		Inits:         DefaultInits,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.Clusters < 1 {
		return fmt.Errorf("cluster count must be at least 1, got %d", c.Clusters)
	}
	if c.Clusters > MaxClusters {
		return fmt.Errorf("cluster count too large: %d (maximum: %d)", c.Clusters, MaxClusters)
	}
	if c.Inits < 1 {
		return fmt.Errorf("inits must be at least 1, got %d", c.Inits)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", c.MaxIterations)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance cannot be negative, got %g", c.Tolerance)
	}
	return nil
}
