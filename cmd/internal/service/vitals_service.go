package service

import (
	"healthgate/cmd/internal/config"
	"healthgate/cmd/internal/domain/entity"
	"healthgate/cmd/internal/ml"
	"healthgate/cmd/internal/utils"
	"healthgate/cmd/internal/utils/apierror"
	"healthgate/cmd/internal/vitals"

	"go.uber.org/zap"
)

// VitalsFeed is the live/simulated side of the vitals data.
type VitalsFeed interface {
	Current() vitals.Sample
	HistoricalWindow(userID, days int) (samples []vitals.Sample, persisted bool)
}

type VitalsRepository interface {
	Append(sample *entity.VitalSample) error
	FindLatest(userID int) (*entity.VitalSample, error)
}

type AnomalyScorer interface {
	Predict(heartRate, systolic, diastolic float64) (string, error)
	Status() ml.ModelStatus
}

type RiskScorer interface {
	Predict(age, bmi, glucose, bpAvg float64) (float64, error)
	Status() ml.ModelStatus
}

type ClusterScorer interface {
	Predict(age, bmi, riskScore float64) (int, error)
	Status() ml.ModelStatus
}

type SampleResponse struct {
	HeartRate float64 `json:"heart_rate"`
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
	Glucose   float64 `json:"glucose"`
	BMI       float64 `json:"bmi"`
	Timestamp string  `json:"timestamp"`
	IsAnomaly bool    `json:"is_anomaly"`
	RiskScore float64 `json:"risk_score"`
}

type LiveVitalsResponse struct {
	Sample SampleResponse `json:"sample"`
	Alerts []string       `json:"alerts"`
}

type HistoryResponse struct {
	Samples []SampleResponse `json:"samples"`
	// Source is "store" for persisted history, "simulated" when the
	// fallback window was served.
	Source string `json:"source"`
}

type ModelStatusResponse struct {
	Anomaly string `json:"anomaly"`
	Risk    string `json:"risk"`
	Cluster string `json:"cluster"`
}

type AnalysisResponse struct {
	RiskScore   float64             `json:"risk_score"` // percentage
	Cluster     int                 `json:"cluster"`
	Tier        string              `json:"tier"`
	Anomaly     string              `json:"anomaly"`
	ModelStatus ModelStatusResponse `json:"model_status"`
}

type DefaultVitalsService struct {
	Feed       VitalsFeed
	VitalsRepo VitalsRepository
	UserRepo   UserRepository
	Anomaly    AnomalyScorer
	Risk       RiskScorer
	Cluster    ClusterScorer
	Thresholds config.ClinicalThresholds
	Logger     *zap.Logger
}

func NewVitalsService(
	feed VitalsFeed,
	vitalsRepo VitalsRepository,
	userRepo UserRepository,
	anomaly AnomalyScorer,
	risk RiskScorer,
	cluster ClusterScorer,
	thresholds config.ClinicalThresholds,
	logger *zap.Logger,
) *DefaultVitalsService {
	return &DefaultVitalsService{
		Feed:       feed,
		VitalsRepo: vitalsRepo,
		UserRepo:   userRepo,
		Anomaly:    anomaly,
		Risk:       risk,
		Cluster:    cluster,
		Thresholds: thresholds,
		Logger:     logger,
	}
}

// Live returns the newest feed sample, re-scored for the caller's actual
// age, persists it, and attaches any clinical alerts it triggers.
func (v *DefaultVitalsService) Live(caller *utils.TokenData) (*LiveVitalsResponse, apierror.ErrorResponse) {
	user, err := v.UserRepo.FindByID(caller.UserID)
	if err != nil {
		v.Logger.Error("failed to fetch user", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}

	sample := v.Feed.Current()
	if risk, rerr := v.Risk.Predict(float64(user.Age), sample.BMI, sample.Glucose, (sample.Systolic+sample.Diastolic)/2); rerr == nil {
		sample.RiskScore = risk
	}

	if err := v.VitalsRepo.Append(sample.ToEntity(user.ID)); err != nil {
		v.Logger.Error("failed to persist vitals sample", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	return &LiveVitalsResponse{
		Sample: toSampleResponse(sample),
		Alerts: vitals.CheckThresholds(sample, v.Thresholds),
	}, nil
}

// History serves the trailing window of persisted samples, falling back
// to the simulated feed when none exist.
func (v *DefaultVitalsService) History(caller *utils.TokenData, days int) (*HistoryResponse, apierror.ErrorResponse) {
	samples, persisted := v.Feed.HistoricalWindow(caller.UserID, days)

	resp := &HistoryResponse{
		Samples: make([]SampleResponse, len(samples)),
		Source:  "simulated",
	}
	if persisted {
		resp.Source = "store"
	}
	for i, s := range samples {
		resp.Samples[i] = toSampleResponse(s)
	}
	return resp, nil
}

// Analyze runs the full scoring pipeline over the caller's latest
// snapshot and writes the result back to the user row. The stored
// risk_score is the predicted probability times 100.
func (v *DefaultVitalsService) Analyze(caller *utils.TokenData) (*AnalysisResponse, apierror.ErrorResponse) {
	user, err := v.UserRepo.FindByID(caller.UserID)
	if err != nil {
		v.Logger.Error("failed to fetch user", zap.Int("user_id", caller.UserID), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}

	sample := v.latestSnapshot(user.ID)

	probability, err := v.Risk.Predict(float64(user.Age), sample.BMI, sample.Glucose, (sample.Systolic+sample.Diastolic)/2)
	if err != nil {
		v.Logger.Error("risk scoring failed", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, apierror.InternalServerError
	}
	riskScore := probability * 100

	cluster, err := v.Cluster.Predict(float64(user.Age), user.BMI, riskScore)
	if err != nil {
		v.Logger.Error("cluster scoring failed", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	label, err := v.Anomaly.Predict(sample.HeartRate, sample.Systolic, sample.Diastolic)
	if err != nil {
		v.Logger.Error("anomaly scoring failed", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user.RiskScore = riskScore
	user.Cluster = cluster
	user.LastChecked = &now
	user.UpdatedAt = now
	if err := v.UserRepo.Save(user); err != nil {
		v.Logger.Error("failed to store assessment", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, apierror.InternalServerError
	}

	return &AnalysisResponse{
		RiskScore: riskScore,
		Cluster:   cluster,
		Tier:      ml.TierNames[cluster],
		Anomaly:   label,
		ModelStatus: ModelStatusResponse{
			Anomaly: string(v.Anomaly.Status()),
			Risk:    string(v.Risk.Status()),
			Cluster: string(v.Cluster.Status()),
		},
	}, nil
}

// latestSnapshot prefers the newest persisted sample and falls back to
// the live feed when the user has none.
func (v *DefaultVitalsService) latestSnapshot(userID int) vitals.Sample {
	latest, err := v.VitalsRepo.FindLatest(userID)
	if err != nil {
		v.Logger.Warn("latest sample lookup failed, using live feed", zap.Int("user_id", userID), zap.Error(err))
		return v.Feed.Current()
	}
	if latest == nil {
		return v.Feed.Current()
	}
	return vitals.FromEntity(latest)
}

func toSampleResponse(s vitals.Sample) SampleResponse {
	return SampleResponse{
		HeartRate: s.HeartRate,
		Systolic:  s.Systolic,
		Diastolic: s.Diastolic,
		Glucose:   s.Glucose,
		BMI:       s.BMI,
		Timestamp: utils.FormatEpoch(s.Timestamp),
		IsAnomaly: s.IsAnomaly,
		RiskScore: s.RiskScore,
	}
}
