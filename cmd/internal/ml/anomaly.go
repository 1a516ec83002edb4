package ml

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

const (
	LabelNormal    = "normal"
	LabelAnomalous = "anomalous"

	anomalyKind = "anomaly"
)

// anomalyModel is a per-feature Gaussian density model over
// (heart_rate, systolic, diastolic). A point whose summed squared
// z-score exceeds the fitted threshold is anomalous.
type anomalyModel struct {
	SchemaVersion int        `json:"schema_version"`
	Kind          string     `json:"kind"`
	Means         [3]float64 `json:"means"`
	StdDevs       [3]float64 `json:"std_devs"`
	Threshold     float64    `json:"threshold"`
}

// AnomalyDetector flags statistically unusual vitals triples. Without a
// trained artifact it deterministically answers normal and reports the
// untrained-fallback status.
type AnomalyDetector struct {
	mu     sync.RWMutex
	model  *anomalyModel
	path   string
	logger *zap.Logger
}

func NewAnomalyDetector(path string, logger *zap.Logger) *AnomalyDetector {
	d := &AnomalyDetector{path: path, logger: logger}

	var model anomalyModel
	if err := loadArtifact(path, anomalyKind, &model); err != nil {
		logger.Warn("anomaly model unavailable, serving untrained fallback",
			zap.String("path", path),
			zap.Error(err),
		)
		return d
	}
	d.model = &model
	return d
}

func (d *AnomalyDetector) Status() ModelStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.model == nil {
		return StatusUntrained
	}
	return StatusTrained
}

// Predict labels one vitals triple. In-range finite input never errors.
func (d *AnomalyDetector) Predict(heartRate, systolic, diastolic float64) (string, error) {
	if err := checkFinite(heartRate, systolic, diastolic); err != nil {
		return "", err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.model == nil {
		return LabelNormal, nil
	}

	if d.model.score([3]float64{heartRate, systolic, diastolic}) > d.model.Threshold {
		return LabelAnomalous, nil
	}
	return LabelNormal, nil
}

// Fit estimates the per-feature Gaussians from a historical corpus and
// sets the decision threshold at the (1 - contamination) quantile of the
// training scores, then persists and hot-swaps the artifact.
func (d *AnomalyDetector) Fit(samples [][3]float64, contamination float64) error {
	model := fitAnomaly(samples, contamination)
	if err := saveArtifact(d.path, model); err != nil {
		return err
	}

	d.mu.Lock()
	d.model = model
	d.mu.Unlock()

	d.logger.Info("anomaly model trained",
		zap.Int("samples", len(samples)),
		zap.Float64("threshold", model.Threshold),
	)
	return nil
}

func fitAnomaly(samples [][3]float64, contamination float64) *anomalyModel {
	model := &anomalyModel{SchemaVersion: SchemaVersion, Kind: anomalyKind}
	n := float64(len(samples))

	for _, s := range samples {
		for i, v := range s {
			model.Means[i] += v / n
		}
	}
	for _, s := range samples {
		for i, v := range s {
			diff := v - model.Means[i]
			model.StdDevs[i] += diff * diff / n
		}
	}
	for i := range model.StdDevs {
		model.StdDevs[i] = math.Sqrt(model.StdDevs[i])
		if model.StdDevs[i] == 0 {
			model.StdDevs[i] = 1
		}
	}

	scores := make([]float64, len(samples))
	for i, s := range samples {
		scores[i] = model.score(s)
	}
	sort.Float64s(scores)

	idx := int((1 - contamination) * float64(len(scores)))
	if idx >= len(scores) {
		idx = len(scores) - 1
	}
	model.Threshold = scores[idx]
	return model
}

func (m *anomalyModel) score(point [3]float64) float64 {
	var total float64
	for i, v := range point {
		z := (v - m.Means[i]) / m.StdDevs[i]
		total += z * z
	}
	return total
}
