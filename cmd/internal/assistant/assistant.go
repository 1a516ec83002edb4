package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"

	"healthgate/cmd/internal/domain/entity"

	"go.uber.org/zap"
)

// Conversation modes. Anything else routes to medicine info.
const (
	ModeMedicine   = 1
	ModeRemedies   = 2
	ModeAssessment = 3
)

const (
	medicinePrompt = "You are a clinical pharmacology AI. Provide a concise summary of a drug with these sections: " +
		"1. Name 2. Uses 3. Dose (range only) 4. Key Side Effects 5. Prescription/OTC. " +
		"Be brief: each section should be 1-2 sentences max. If the user wants more, they will ask. " +
		"No extra notes unless asked. Use Markdown format, not full HTML."
	remediesPrompt   = "You are a natural remedies advisor. Provide safe, science-backed remedies for symptoms or conditions."
	assessmentPrompt = "You are a health assessment tool. Help the user understand their symptoms and recommend whether to seek professional help."
)

// Messages for the best-effort anomaly suffix on vitals questions.
const (
	suffixAnomalous    = "Recent vitals indicate an anomaly. Please seek medical attention."
	suffixStable       = "Vitals appear stable."
	suffixCannotAssess = "Could not assess anomaly status."
)

var vitalsKeywords = []string{"blood pressure", "heart rate", "glucose", "bmi"}

// Completer runs one completion exchange, always returning text.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) string
}

// VitalsHistory is the slice of the store the assistant reads.
type VitalsHistory interface {
	FindLatest(userID int) (*entity.VitalSample, error)
	FindSince(userID int, since int64) ([]*entity.VitalSample, error)
	FindRiskHistory(userID int) ([]*entity.VitalSample, error)
}

// Assistant maps user utterances to system-prompted completion requests
// and decorates vitals-related answers with the caller's latest anomaly
// state.
type Assistant struct {
	client Completer
	vitals VitalsHistory
	logger *zap.Logger
}

func New(client Completer, vitals VitalsHistory, logger *zap.Logger) *Assistant {
	return &Assistant{client: client, vitals: vitals, logger: logger}
}

// Chat forwards the utterance under the mode's system prompt. Unknown
// modes fall back to medicine info by design, not as an error.
func (a *Assistant) Chat(ctx context.Context, userID int, prompt string, mode int) string {
	system := medicinePrompt
	switch mode {
	case ModeRemedies:
		system = remediesPrompt
	case ModeAssessment:
		system = assessmentPrompt
	}

	reply := a.client.Complete(ctx, []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: strings.TrimSpace(prompt)},
	})

	if isVitalsRelated(prompt) {
		reply = reply + "\n\n---\n" + a.anomalyStatus(userID)
	}
	return reply
}

// anomalyStatus reads the caller's latest persisted sample. Best-effort:
// any failure degrades to a generic line rather than losing the reply.
func (a *Assistant) anomalyStatus(userID int) string {
	latest, err := a.vitals.FindLatest(userID)
	if err != nil {
		a.logger.Warn("anomaly status lookup failed", zap.Int("user_id", userID), zap.Error(err))
		return suffixCannotAssess
	}
	if latest == nil {
		return suffixCannotAssess
	}
	if latest.IsAnomaly {
		return suffixAnomalous
	}
	return suffixStable
}

func isVitalsRelated(prompt string) bool {
	lowered := strings.ToLower(prompt)
	for _, keyword := range vitalsKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Per-cluster care guidance, fixed externally to the clustering
// algorithm.
var clusterGuidelines = map[int]string{
	0: "Standard Care: monthly checkups and wellness tracking.",
	1: "Enhanced Monitoring: bi-weekly checkups and dietary coaching.",
	2: "High Risk: weekly reviews with medical supervision.",
	3: "Critical Protocol: daily monitoring with specialist support.",
}

// Recommendation builds the treatment suggestion shown to doctors: the
// patient's risk trajectory plus the care guideline for their cluster.
func (a *Assistant) Recommendation(patient *entity.User) string {
	trend := a.riskProgression(patient.ID)

	guideline, ok := clusterGuidelines[patient.Cluster]
	if !ok {
		guideline = "Default care applies."
	}

	return fmt.Sprintf(
		"Patient: %s\nRisk Profile: %.1f%% (%s)\nCare Group: Cluster %d\n\n%s",
		patient.Username, patient.RiskScore, trend, patient.Cluster, guideline,
	)
}

// riskProgression fits a least-squares slope over the persisted risk
// scores.
func (a *Assistant) riskProgression(userID int) string {
	rows, err := a.vitals.FindRiskHistory(userID)
	if err != nil {
		a.logger.Warn("risk history lookup failed", zap.Int("user_id", userID), zap.Error(err))
		return "Not enough data"
	}
	if len(rows) < 2 {
		return "Not enough data"
	}

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = row.RiskScore
	}
	if slope(scores) > 0 {
		return "Increasing"
	}
	return "Decreasing"
}

// MetricTrend summarizes one channel over the analysis window.
type MetricTrend struct {
	Metric      string  `json:"metric"`
	Average     float64 `json:"average"`
	Variability float64 `json:"variability"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// AnalyzeTrends aggregates heart rate and blood pressure over the
// trailing days of persisted samples.
func (a *Assistant) AnalyzeTrends(userID int, since int64) ([]MetricTrend, error) {
	rows, err := a.vitals.FindSince(userID, since)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	metrics := []struct {
		name string
		pick func(*entity.VitalSample) float64
	}{
		{"heart_rate", func(r *entity.VitalSample) float64 { return r.HeartRate }},
		{"systolic", func(r *entity.VitalSample) float64 { return r.Systolic }},
		{"diastolic", func(r *entity.VitalSample) float64 { return r.Diastolic }},
	}

	trends := make([]MetricTrend, 0, len(metrics))
	for _, m := range metrics {
		values := make([]float64, len(rows))
		for i, row := range rows {
			values[i] = m.pick(row)
		}
		trends = append(trends, summarize(m.name, values))
	}
	return trends, nil
}

func summarize(name string, values []float64) MetricTrend {
	trend := MetricTrend{Metric: name, Min: values[0], Max: values[0]}
	for _, v := range values {
		trend.Average += v
		if v < trend.Min {
			trend.Min = v
		}
		if v > trend.Max {
			trend.Max = v
		}
	}
	trend.Average /= float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - trend.Average
		variance += diff * diff
	}
	trend.Variability = math.Sqrt(variance / float64(len(values)))
	return trend
}

func slope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	return (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
}
