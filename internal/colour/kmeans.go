package colour

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/muesli/clusters"
)

// KMeansExtractor finds the dominant colour of a pixel set using k-means
// clustering in Lab space. It is safe for concurrent use: every call seeds its own
// pseudorandom source from the configured seed.
type KMeansExtractor struct {
	config ExtractorConfig
}

// Cluster is one partition of a region's pixels.
type Cluster struct {
	// Centre is the cluster centroid in Lab.
	Centre Lab `json:"centre"`

	// Size is the number of pixels assigned to the cluster.
	Size int `json:"size"`
}

// NewKMeansExtractor creates a new KMeansExtractor with default settings.
func NewKMeansExtractor() *KMeansExtractor {
	return &KMeansExtractor{config: DefaultExtractorConfig()}
}

// NewKMeansExtractorWithConfig creates a KMeansExtractor from a validated config.
func NewKMeansExtractorWithConfig(config ExtractorConfig) (*KMeansExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extractor configuration: %w", err)
	}
	return &KMeansExtractor{config: config}, nil
}

// Config returns the extractor's configuration.
func (e *KMeansExtractor) Config() ExtractorConfig {
	return e.config
}

var defaultExtractor = NewKMeansExtractor()

// DominantColour returns the dominant Lab colour of pixels using the default
// extractor and k clusters.
func DominantColour(pixels []RGB, k int) Lab {
	// A background context never cancels, so the error is always nil.
	lab, _ := defaultExtractor.Dominant(context.Background(), pixels, k)
	return lab
}

// Dominant returns the centroid of the largest of k clusters formed from pixels.
// Ties between equally sized clusters go to the lowest cluster index.
//
// An empty pixel set yields the zero Lab sentinel. When there are fewer pixels
// than clusters the cluster count is reduced to the pixel count, and a single
// pixel is returned as-is without clustering. A k below 1 selects the configured
// cluster count. The only error returned is the context's.
func (e *KMeansExtractor) Dominant(ctx context.Context, pixels []RGB, k int) (Lab, error) {
	partition, err := e.Partition(ctx, pixels, k)
	if err != nil {
		return Lab{}, err
	}
	if len(partition) == 0 {
		return Lab{}, nil
	}

	largest := 0
	for i := 1; i < len(partition); i++ {
		if partition[i].Size > partition[largest].Size {
			largest = i
		}
	}
	return partition[largest].Centre, nil
}

// Partition clusters pixels into at most k groups and returns them in cluster
// index order. See Dominant for the handling of small inputs.
func (e *KMeansExtractor) Partition(ctx context.Context, pixels []RGB, k int) ([]Cluster, error) {
	if len(pixels) == 0 {
		return nil, nil
	}
	if len(pixels) == 1 {
		return []Cluster{{Centre: ToLab(pixels[0]), Size: 1}}, nil
	}
	if k < 1 {
		k = e.config.Clusters
	}
	if k > len(pixels) {
		k = len(pixels)
	}

	points := make(clusters.Observations, len(pixels))
	for i, p := range pixels {
		points[i] = ToLab(p)
	}

	best, err := e.kmeans(ctx, points, k)
	if err != nil {
		return nil, err
	}

	result := make([]Cluster, len(best))
	for i, c := range best {
		result[i] = Cluster{
			Centre: Lab{L: c.Center[0], A: c.Center[1], B: c.Center[2]},
			Size:   len(c.Observations),
		}
	}
	return result, nil
}

// kmeans runs the configured number of seedings and keeps the partition with the
// lowest inertia. The first run wins ties.
func (e *KMeansExtractor) kmeans(ctx context.Context, points clusters.Observations, k int) (clusters.Clusters, error) {
	rng := rand.New(rand.NewSource(e.config.Seed)) // #nosec G404 - reproducibility, not security

	var best clusters.Clusters
	bestInertia := math.Inf(1)

	for run := 0; run < e.config.Inits; run++ {
		cs := e.initializeCentroidsKMeansPlusPlus(rng, points, k)
		if err := e.lloyd(ctx, points, cs); err != nil {
			return nil, err
		}
		if in := inertia(cs); in < bestInertia || best == nil {
			best = cs
			bestInertia = in
		}
	}

	return best, nil
}

// initializeCentroidsKMeansPlusPlus picks k starting centres, each chosen with
// probability proportional to its squared distance from the nearest centre
// already picked.
func (e *KMeansExtractor) initializeCentroidsKMeansPlusPlus(rng *rand.Rand, points clusters.Observations, k int) clusters.Clusters {
	cs := make(clusters.Clusters, 0, k)
	cs = append(cs, clusters.Cluster{Center: points[rng.Intn(len(points))].Coordinates()})

	distances := make([]float64, len(points))
	for len(cs) < k {
		total := 0.0
		for i, p := range points {
			distances[i] = p.Distance(cs[cs.Nearest(p)].Center)
			total += distances[i]
		}

		// Every point already coincides with a centre.
		if total == 0 {
			cs = append(cs, clusters.Cluster{Center: points[rng.Intn(len(points))].Coordinates()})
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := -1
		for i, d := range distances {
			if d == 0 {
				continue
			}
			chosen = i
			cumulative += d
			if cumulative >= target {
				break
			}
		}
		cs = append(cs, clusters.Cluster{Center: points[chosen].Coordinates()})
	}

	return cs
}

// lloyd alternates assignment and recentring until assignments stop changing,
// the centres settle within the tolerance, or the iteration cap is reached. On
// return each cluster's observations match its final centre.
func (e *KMeansExtractor) lloyd(ctx context.Context, points clusters.Observations, cs clusters.Clusters) error {
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	stale := true
	for iter := 0; iter < e.config.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if assign(points, cs, assignments) == 0 {
			stale = false
			break
		}
		if recenter(cs) <= e.config.Tolerance {
			break
		}
	}

	if stale {
		assign(points, cs, assignments)
	}
	return nil
}

// assign moves every point into its nearest cluster and returns how many points
// changed cluster.
func assign(points clusters.Observations, cs clusters.Clusters, assignments []int) int {
	cs.Reset()
	changed := 0
	for i, p := range points {
		nearest := cs.Nearest(p)
		if assignments[i] != nearest {
			assignments[i] = nearest
			changed++
		}
		cs[nearest].Append(p)
	}
	return changed
}

// recenter moves each non-empty cluster to the mean of its observations and
// returns the largest centre movement in Lab units.
func recenter(cs clusters.Clusters) float64 {
	previous := make([]clusters.Coordinates, len(cs))
	for i := range cs {
		previous[i] = cs[i].Center
	}

	cs.Recenter()

	shift := 0.0
	for i := range cs {
		if d := math.Sqrt(previous[i].Distance(cs[i].Center)); d > shift {
			shift = d
		}
	}
	return shift
}

// inertia is the within-cluster sum of squared distances.
func inertia(cs clusters.Clusters) float64 {
	total := 0.0
	for _, c := range cs {
		for _, o := range c.Observations {
			total += o.Distance(c.Center)
		}
	}
	return total
}
