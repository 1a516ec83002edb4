package vitals

import (
	"fmt"

	"healthgate/cmd/internal/config"
)

// CheckThresholds reports the clinical alerts a sample triggers.
func CheckThresholds(s Sample, t config.ClinicalThresholds) []string {
	var alerts []string

	if s.HeartRate < t.CriticalHeartRate.Min || s.HeartRate > t.CriticalHeartRate.Max {
		alerts = append(alerts, fmt.Sprintf("Critical heart rate: %.0f BPM", s.HeartRate))
	}
	if s.Systolic < t.Hypotension {
		alerts = append(alerts, fmt.Sprintf("Hypotension: %.0f mmHg", s.Systolic))
	}
	if s.Systolic > t.HypertensionStage2 {
		alerts = append(alerts, fmt.Sprintf("Stage 2 hypertension: %.0f mmHg", s.Systolic))
	}
	if s.Glucose < t.Hypoglycemia {
		alerts = append(alerts, fmt.Sprintf("Hypoglycemia: %.0f mg/dL", s.Glucose))
	}
	if s.Glucose > t.Hyperglycemia {
		alerts = append(alerts, fmt.Sprintf("Hyperglycemia: %.0f mg/dL", s.Glucose))
	}

	return alerts
}
