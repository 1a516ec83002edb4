package ml

import (
	"math"
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

const (
	clusterKind = "cluster"

	// NumClusters is fixed: every input maps to exactly one of four
	// care-intensity tiers.
	NumClusters = 4
)

// TierNames maps a cluster label to its care-intensity tier.
var TierNames = [NumClusters]string{"Standard", "Enhanced", "High", "Critical"}

// clusterModel holds k-means centroids over (age, bmi, risk_score).
type clusterModel struct {
	SchemaVersion int                     `json:"schema_version"`
	Kind          string                  `json:"kind"`
	Centroids     [NumClusters][3]float64 `json:"centroids"`
}

// PatientCluster assigns patients to one of four care tiers. It is total
// over its domain: every finite input maps to a label in [0, 4), and the
// untrained fallback is tier 0.
type PatientCluster struct {
	mu     sync.RWMutex
	model  *clusterModel
	path   string
	logger *zap.Logger
}

func NewPatientCluster(path string, logger *zap.Logger) *PatientCluster {
	c := &PatientCluster{path: path, logger: logger}

	var model clusterModel
	if err := loadArtifact(path, clusterKind, &model); err != nil {
		logger.Warn("cluster model unavailable, serving untrained fallback",
			zap.String("path", path),
			zap.Error(err),
		)
		return c
	}
	c.model = &model
	return c
}

func (c *PatientCluster) Status() ModelStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.model == nil {
		return StatusUntrained
	}
	return StatusTrained
}

// Predict returns the care tier for one patient profile.
func (c *PatientCluster) Predict(age, bmi, riskScore float64) (int, error) {
	if err := checkFinite(age, bmi, riskScore); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.model == nil {
		return 0, nil
	}
	return c.model.nearest([3]float64{age, bmi, riskScore}), nil
}

// Fit runs Lloyd's k-means with a fixed seed, persists the artifact and
// hot-swaps it.
func (c *PatientCluster) Fit(points [][3]float64) error {
	model := fitCluster(points)
	if err := saveArtifact(c.path, model); err != nil {
		return err
	}

	c.mu.Lock()
	c.model = model
	c.mu.Unlock()

	c.logger.Info("cluster model trained", zap.Int("samples", len(points)))
	return nil
}

func fitCluster(points [][3]float64) *clusterModel {
	model := &clusterModel{SchemaVersion: SchemaVersion, Kind: clusterKind}
	rng := rand.New(rand.NewSource(42))

	// k-means++ seeding
	model.Centroids[0] = points[rng.Intn(len(points))]
	for k := 1; k < NumClusters; k++ {
		distances := make([]float64, len(points))
		var total float64
		for i, p := range points {
			nearest := math.Inf(1)
			for j := 0; j < k; j++ {
				if d := squaredDistance(p, model.Centroids[j]); d < nearest {
					nearest = d
				}
			}
			distances[i] = nearest
			total += nearest
		}

		target := rng.Float64() * total
		var cumulative float64
		chosen := len(points) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		model.Centroids[k] = points[chosen]
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < 100; iter++ {
		changed := false
		for i, p := range points {
			label := model.nearest(p)
			if label != assignments[i] {
				assignments[i] = label
				changed = true
			}
		}

		var sums [NumClusters][3]float64
		var counts [NumClusters]int
		for i, p := range points {
			label := assignments[i]
			counts[label]++
			for d := 0; d < 3; d++ {
				sums[label][d] += p[d]
			}
		}
		for k := 0; k < NumClusters; k++ {
			if counts[k] == 0 {
				continue // keep the previous centroid for an empty cluster
			}
			for d := 0; d < 3; d++ {
				model.Centroids[k][d] = sums[k][d] / float64(counts[k])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}
	return model
}

func (m *clusterModel) nearest(p [3]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for k, centroid := range m.Centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			bestDist = d
			best = k
		}
	}
	return best
}

func squaredDistance(a, b [3]float64) float64 {
	var total float64
	for i := range a {
		diff := a[i] - b[i]
		total += diff * diff
	}
	return total
}
