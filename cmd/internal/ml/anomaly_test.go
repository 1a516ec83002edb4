package ml

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func trainedAnomaly(t *testing.T) *AnomalyDetector {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anomaly.json")
	detector := NewAnomalyDetector(path, zap.NewNop())

	rng := rand.New(rand.NewSource(1))
	require.NoError(t, detector.Fit(GenerateVitalsCorpus(rng, 5000), 0.05))
	return detector
}

func TestAnomalyPredictReturnsValidLabel(t *testing.T) {
	detector := trainedAnomaly(t)

	for hr := 40.0; hr <= 180; hr += 20 {
		for sys := 80.0; sys <= 200; sys += 30 {
			for dia := 50.0; dia <= 130; dia += 20 {
				label, err := detector.Predict(hr, sys, dia)
				require.NoError(t, err)
				require.Contains(t, []string{LabelNormal, LabelAnomalous}, label)
			}
		}
	}
}

func TestAnomalyFlagsExtremeVitals(t *testing.T) {
	detector := trainedAnomaly(t)

	label, err := detector.Predict(75, 120, 80)
	require.NoError(t, err)
	require.Equal(t, LabelNormal, label)

	label, err = detector.Predict(400, 400, 300)
	require.NoError(t, err)
	require.Equal(t, LabelAnomalous, label)
}

func TestAnomalyUntrainedFallback(t *testing.T) {
	detector := NewAnomalyDetector(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	require.Equal(t, StatusUntrained, detector.Status())

	label, err := detector.Predict(400, 400, 300)
	require.NoError(t, err)
	require.Equal(t, LabelNormal, label)
}

func TestAnomalyRejectsNaN(t *testing.T) {
	detector := trainedAnomaly(t)

	_, err := detector.Predict(math.NaN(), 120, 80)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = detector.Predict(75, math.Inf(1), 80)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnomalyArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anomaly.json")
	detector := NewAnomalyDetector(path, zap.NewNop())

	rng := rand.New(rand.NewSource(1))
	require.NoError(t, detector.Fit(GenerateVitalsCorpus(rng, 1000), 0.05))
	require.Equal(t, StatusTrained, detector.Status())

	reloaded := NewAnomalyDetector(path, zap.NewNop())
	require.Equal(t, StatusTrained, reloaded.Status())
}
