package vitals

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthgate/cmd/internal/config"
	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/ml"
)

type stubAnomaly struct{ label string }

func (s stubAnomaly) Predict(heartRate, systolic, diastolic float64) (string, error) {
	return s.label, nil
}

type stubRisk struct{ score float64 }

func (s stubRisk) Predict(age, bmi, glucose, bpAvg float64) (float64, error) {
	return s.score, nil
}

type stubStore struct {
	rows []*entity.VitalSample
	err  error
}

func (s stubStore) FindSince(userID int, since int64) ([]*entity.VitalSample, error) {
	return s.rows, s.err
}

func testSimConfig() config.SimulatorConfig {
	return config.SimulatorConfig{
		WindowSize:         64,
		UpdateInterval:     5 * time.Second,
		AnomalyProbability: 0.05,
		Ranges: config.VitalRanges{
			HeartRate: config.Range{Min: 60, Max: 100},
			Systolic:  config.Range{Min: 90, Max: 140},
			Diastolic: config.Range{Min: 60, Max: 90},
			Glucose:   config.Range{Min: 70, Max: 200},
			BMI:       config.Range{Min: 18.5, Max: 35.0},
		},
	}
}

func newTestSimulator(store SampleStore) *Simulator {
	return NewSimulator(testSimConfig(), stubAnomaly{label: ml.LabelNormal}, stubRisk{score: 0.2}, store, zap.NewNop())
}

func TestWindowLengthConstantAcrossAdvances(t *testing.T) {
	sim := newTestSimulator(stubStore{})
	require.Equal(t, 64, sim.WindowSize())

	for i := 0; i < 200; i++ {
		sim.Advance()
	}
	require.Equal(t, 64, sim.WindowSize())
}

func TestSamplesStayWithinRanges(t *testing.T) {
	sim := newTestSimulator(stubStore{})
	for i := 0; i < 100; i++ {
		sim.Advance()
	}

	ranges := testSimConfig().Ranges
	for _, s := range sim.Window() {
		require.GreaterOrEqual(t, s.HeartRate, ranges.HeartRate.Min)
		require.LessOrEqual(t, s.HeartRate, ranges.HeartRate.Max)
		require.GreaterOrEqual(t, s.Systolic, ranges.Systolic.Min)
		require.LessOrEqual(t, s.Systolic, ranges.Systolic.Max)
		require.GreaterOrEqual(t, s.Diastolic, ranges.Diastolic.Min)
		require.LessOrEqual(t, s.Diastolic, ranges.Diastolic.Max)
		require.GreaterOrEqual(t, s.Glucose, ranges.Glucose.Min)
		require.LessOrEqual(t, s.Glucose, ranges.Glucose.Max)
		require.GreaterOrEqual(t, s.BMI, ranges.BMI.Min)
		require.LessOrEqual(t, s.BMI, ranges.BMI.Max)
	}
}

func TestWindowTimestampsAreMonotonic(t *testing.T) {
	sim := newTestSimulator(stubStore{})
	window := sim.Window()
	for i := 1; i < len(window); i++ {
		require.GreaterOrEqual(t, window[i].Timestamp, window[i-1].Timestamp)
	}
}

func TestAdvanceAppendsNewestSample(t *testing.T) {
	sim := newTestSimulator(stubStore{})
	before := sim.Window()

	sim.Advance()
	after := sim.Window()

	require.Equal(t, before[1:], after[:len(after)-1])
	require.GreaterOrEqual(t, after[len(after)-1].Timestamp, before[len(before)-1].Timestamp)
}

func TestHistoricalWindowPrefersPersistedRows(t *testing.T) {
	row := &entity.VitalSample{
		UserID:    1,
		HeartRate: 72,
		Systolic:  118,
		Diastolic: 78,
		Glucose:   95,
		BMI:       24.5,
		Timestamp: time.Now().UTC().Add(-time.Hour).UnixMilli(),
	}
	sim := newTestSimulator(stubStore{rows: []*entity.VitalSample{row}})

	samples, persisted := sim.HistoricalWindow(1, 7)
	require.True(t, persisted)
	require.Len(t, samples, 1)
	require.Equal(t, FromEntity(row), samples[0])
}

func TestHistoricalWindowFallsBackWhenStoreEmpty(t *testing.T) {
	sim := newTestSimulator(stubStore{})

	samples, persisted := sim.HistoricalWindow(1, 7)
	require.False(t, persisted)
	require.Len(t, samples, 64)
}

func TestHistoricalWindowFallsBackOnStoreError(t *testing.T) {
	sim := newTestSimulator(stubStore{err: errors.New("disk gone")})

	samples, persisted := sim.HistoricalWindow(1, 7)
	require.False(t, persisted)
	require.Len(t, samples, 64)
}

func TestScoringMarksAnomalousSamples(t *testing.T) {
	sim := NewSimulator(testSimConfig(), stubAnomaly{label: ml.LabelAnomalous}, stubRisk{score: 0.9}, stubStore{}, zap.NewNop())

	sim.Advance()
	last := sim.Window()[sim.WindowSize()-1]
	require.True(t, last.IsAnomaly)
	require.Equal(t, 0.9, last.RiskScore)
}
