package vitals

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"healthgate/cmd/internal/config"
	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/ml"

	"go.uber.org/zap"
)

// mockAge stands in for the wearer's age when scoring simulated samples;
// the feed is not tied to a real profile until it is persisted.
const mockAge = 35

// Sample is one in-memory vitals snapshot.
type Sample struct {
	HeartRate float64
	Systolic  float64
	Diastolic float64
	Glucose   float64
	BMI       float64
	Timestamp int64
	IsAnomaly bool
	RiskScore float64
}

type AnomalyScorer interface {
	Predict(heartRate, systolic, diastolic float64) (string, error)
}

type RiskScorer interface {
	Predict(age, bmi, glucose, bpAvg float64) (float64, error)
}

// SampleStore is the persisted-history side of the historical query.
type SampleStore interface {
	FindSince(userID int, since int64) ([]*entity.VitalSample, error)
}

// Simulator owns a process-lifetime rolling window of per-minute vitals
// and advances it to emulate a live device feed. All access is
// serialized behind one mutex since every HTTP handler may touch it.
type Simulator struct {
	mu         sync.Mutex
	window     []Sample
	lastUpdate time.Time

	cfg     config.SimulatorConfig
	rng     *rand.Rand
	anomaly AnomalyScorer
	risk    RiskScorer
	store   SampleStore
	logger  *zap.Logger
}

func NewSimulator(cfg config.SimulatorConfig, anomaly AnomalyScorer, risk RiskScorer, store SampleStore, logger *zap.Logger) *Simulator {
	s := &Simulator{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		anomaly: anomaly,
		risk:    risk,
		store:   store,
		logger:  logger,
	}
	s.initialize()
	return s
}

// initialize fills the window with cfg.WindowSize per-minute samples
// ending now. Anomalies are injected before clamping, so an injected
// spike can be suppressed by the range limit; that mirrors the device
// firmware this simulator stands in for.
func (s *Simulator) initialize() {
	now := time.Now().UTC()
	n := s.cfg.WindowSize
	ranges := s.cfg.Ranges

	s.window = make([]Sample, n)
	for i := 0; i < n; i++ {
		heartRate := s.rng.NormFloat64()*10 + 75
		systolic := s.rng.NormFloat64()*15 + 120
		diastolic := s.rng.NormFloat64()*10 + 80
		glucose := s.rng.NormFloat64()*20 + 100
		bmi := ranges.BMI.Min + s.rng.Float64()*(ranges.BMI.Max-ranges.BMI.Min)

		if s.rng.Float64() < s.cfg.AnomalyProbability {
			heartRate *= 1.5
		}
		if s.rng.Float64() < s.cfg.AnomalyProbability {
			systolic += 30
		}
		if s.rng.Float64() < s.cfg.AnomalyProbability {
			glucose += 50
		}

		sample := Sample{
			HeartRate: float64(int(ranges.HeartRate.Clamp(heartRate))),
			Systolic:  float64(int(ranges.Systolic.Clamp(systolic))),
			Diastolic: float64(int(ranges.Diastolic.Clamp(diastolic))),
			Glucose:   float64(int(ranges.Glucose.Clamp(glucose))),
			BMI:       roundTenth(ranges.BMI.Clamp(bmi)),
			Timestamp: now.Add(-time.Duration(n-1-i) * time.Minute).UnixMilli(),
		}
		s.score(&sample)
		s.window[i] = sample
	}
	s.lastUpdate = now
}

// Current returns the newest sample, advancing the feed first when the
// configured interval has elapsed.
func (s *Simulator) Current() Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastUpdate) > s.cfg.UpdateInterval {
		s.advanceLocked()
	}
	return s.window[len(s.window)-1]
}

// Advance forces one feed step regardless of the interval.
func (s *Simulator) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
}

// advanceLocked drops the oldest sample and appends a bounded random
// walk off the prior last sample. Window length stays constant.
func (s *Simulator) advanceLocked() {
	last := s.window[len(s.window)-1]
	ranges := s.cfg.Ranges

	next := Sample{
		HeartRate: ranges.HeartRate.Clamp(last.HeartRate + float64(s.rng.Intn(5)-2)),
		Systolic:  ranges.Systolic.Clamp(last.Systolic + float64(s.rng.Intn(5)-2)),
		Diastolic: ranges.Diastolic.Clamp(last.Diastolic + float64(s.rng.Intn(5)-2)),
		Glucose:   ranges.Glucose.Clamp(last.Glucose + float64(s.rng.Intn(5)-2)),
		BMI:       last.BMI,
		Timestamp: time.Now().UTC().UnixMilli(),
	}
	s.score(&next)

	copy(s.window, s.window[1:])
	s.window[len(s.window)-1] = next
	s.lastUpdate = time.Now()
}

// Window returns a copy of the in-memory window, oldest first.
func (s *Simulator) Window() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.window))
	copy(out, s.window)
	return out
}

// WindowSize reports the invariant window length.
func (s *Simulator) WindowSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.window)
}

// HistoricalWindow returns the user's persisted samples for the trailing
// days, with persisted=true. No persisted rows, or a store failure,
// degrades to the in-memory simulated window with persisted=false; the
// fallback is logged and observable, never an error.
func (s *Simulator) HistoricalWindow(userID, days int) (samples []Sample, persisted bool) {
	since := time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
	rows, err := s.store.FindSince(userID, since)
	if err != nil {
		s.logger.Warn("historical vitals query failed, serving simulated window",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return s.Window(), false
	}
	if len(rows) == 0 {
		return s.Window(), false
	}

	out := make([]Sample, len(rows))
	for i, row := range rows {
		out[i] = FromEntity(row)
	}
	return out, true
}

func (s *Simulator) score(sample *Sample) {
	label, err := s.anomaly.Predict(sample.HeartRate, sample.Systolic, sample.Diastolic)
	if err == nil {
		sample.IsAnomaly = label == ml.LabelAnomalous
	}

	risk, err := s.risk.Predict(mockAge, sample.BMI, sample.Glucose, (sample.Systolic+sample.Diastolic)/2)
	if err == nil {
		sample.RiskScore = risk
	}
}

// ToEntity binds a sample to a user for persistence.
func (s Sample) ToEntity(userID int) *entity.VitalSample {
	return &entity.VitalSample{
		UserID:    userID,
		HeartRate: s.HeartRate,
		Systolic:  s.Systolic,
		Diastolic: s.Diastolic,
		Glucose:   s.Glucose,
		BMI:       s.BMI,
		Timestamp: s.Timestamp,
		IsAnomaly: s.IsAnomaly,
		RiskScore: s.RiskScore,
	}
}

func FromEntity(row *entity.VitalSample) Sample {
	return Sample{
		HeartRate: row.HeartRate,
		Systolic:  row.Systolic,
		Diastolic: row.Diastolic,
		Glucose:   row.Glucose,
		BMI:       row.BMI,
		Timestamp: row.Timestamp,
		IsAnomaly: row.IsAnomaly,
		RiskScore: row.RiskScore,
	}
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// String renders the snapshot the way alert messages reference it.
func (s Sample) String() string {
	return fmt.Sprintf("HR %.0f, BP %.0f/%.0f, Glucose %.0f, BMI %.1f",
		s.HeartRate, s.Systolic, s.Diastolic, s.Glucose, s.BMI)
}
