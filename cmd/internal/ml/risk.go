package ml

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

const riskKind = "risk"

const riskFeatures = 4 // age, bmi, glucose, bp_avg

type stump struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      float64 `json:"left"`
	Right     float64 `json:"right"`
}

// riskModel is a gradient-boosted ensemble of regression stumps under
// logistic loss over (age, bmi, glucose, bp_avg).
type riskModel struct {
	SchemaVersion int     `json:"schema_version"`
	Kind          string  `json:"kind"`
	Bias          float64 `json:"bias"`
	Stumps        []stump `json:"stumps"`
}

// RiskPredictor scores the likelihood of elevated diabetes risk as a
// probability in [0,1]. The artifact is loaded once and cached for the
// process lifetime; Reload hot-swaps it after retraining.
type RiskPredictor struct {
	mu     sync.RWMutex
	model  *riskModel
	path   string
	logger *zap.Logger
}

func NewRiskPredictor(path string, logger *zap.Logger) *RiskPredictor {
	p := &RiskPredictor{path: path, logger: logger}
	if err := p.Reload(); err != nil {
		logger.Warn("risk model unavailable, serving untrained fallback",
			zap.String("path", path),
			zap.Error(err),
		)
	}
	return p
}

// Reload replaces the cached model with the current artifact on disk.
func (p *RiskPredictor) Reload() error {
	var model riskModel
	if err := loadArtifact(p.path, riskKind, &model); err != nil {
		return err
	}

	p.mu.Lock()
	p.model = &model
	p.mu.Unlock()
	return nil
}

func (p *RiskPredictor) Status() ModelStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return StatusUntrained
	}
	return StatusTrained
}

// Predict returns the elevated-risk probability for one patient snapshot.
// Untrained fallback is a deterministic zero.
func (p *RiskPredictor) Predict(age, bmi, glucose, bpAvg float64) (float64, error) {
	if err := checkFinite(age, bmi, glucose, bpAvg); err != nil {
		return 0, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return 0, nil
	}
	return sigmoid(p.model.raw([riskFeatures]float64{age, bmi, glucose, bpAvg})), nil
}

// Fit boosts regression stumps against the logistic-loss gradient,
// persists the artifact, and swaps it into the cache.
func (p *RiskPredictor) Fit(features [][riskFeatures]float64, labels []int, rounds int, learningRate float64) error {
	model := fitRisk(features, labels, rounds, learningRate)
	if err := saveArtifact(p.path, model); err != nil {
		return err
	}

	p.mu.Lock()
	p.model = model
	p.mu.Unlock()

	p.logger.Info("risk model trained",
		zap.Int("samples", len(features)),
		zap.Int("rounds", rounds),
	)
	return nil
}

func fitRisk(features [][riskFeatures]float64, labels []int, rounds int, learningRate float64) *riskModel {
	n := len(features)
	model := &riskModel{SchemaVersion: SchemaVersion, Kind: riskKind}

	var positives float64
	for _, y := range labels {
		positives += float64(y)
	}
	prior := clampProbability(positives / float64(n))
	model.Bias = math.Log(prior / (1 - prior))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = model.Bias
	}

	residuals := make([]float64, n)
	for round := 0; round < rounds; round++ {
		for i := range residuals {
			residuals[i] = float64(labels[i]) - sigmoid(scores[i])
		}

		best := bestStump(features, residuals)
		best.Left *= learningRate
		best.Right *= learningRate
		model.Stumps = append(model.Stumps, best)

		for i, x := range features {
			scores[i] += best.apply(x)
		}
	}
	return model
}

// bestStump scans decile thresholds per feature and keeps the split with
// the lowest squared error against the residuals.
func bestStump(features [][riskFeatures]float64, residuals []float64) stump {
	n := len(features)
	best := stump{}
	bestErr := math.Inf(1)

	for f := 0; f < riskFeatures; f++ {
		column := make([]float64, n)
		for i, x := range features {
			column[i] = x[f]
		}
		sorted := append([]float64(nil), column...)
		sort.Float64s(sorted)

		for decile := 1; decile < 10; decile++ {
			threshold := sorted[n*decile/10]

			var leftSum, rightSum float64
			var leftCount, rightCount int
			for i, v := range column {
				if v <= threshold {
					leftSum += residuals[i]
					leftCount++
				} else {
					rightSum += residuals[i]
					rightCount++
				}
			}
			if leftCount == 0 || rightCount == 0 {
				continue
			}

			left := leftSum / float64(leftCount)
			right := rightSum / float64(rightCount)

			var sqErr float64
			for i, v := range column {
				pred := right
				if v <= threshold {
					pred = left
				}
				diff := residuals[i] - pred
				sqErr += diff * diff
			}

			if sqErr < bestErr {
				bestErr = sqErr
				best = stump{Feature: f, Threshold: threshold, Left: left, Right: right}
			}
		}
	}
	return best
}

func (s stump) apply(x [riskFeatures]float64) float64 {
	if x[s.Feature] <= s.Threshold {
		return s.Left
	}
	return s.Right
}

func (m *riskModel) raw(x [riskFeatures]float64) float64 {
	total := m.Bias
	for _, s := range m.Stumps {
		total += s.apply(x)
	}
	return total
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func clampProbability(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}
