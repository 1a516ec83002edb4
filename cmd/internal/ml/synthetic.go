package ml

import "math/rand"

// Synthetic training corpora, mirrored from the offline data-prep step.
// Distributions are intentionally loose; the models only need plausible
// covariance, not clinical truth.

// GenerateVitalsCorpus draws (heart_rate, systolic, diastolic) triples
// for the anomaly detector.
func GenerateVitalsCorpus(rng *rand.Rand, n int) [][3]float64 {
	samples := make([][3]float64, n)
	for i := range samples {
		samples[i] = [3]float64{
			float64(int(rng.NormFloat64()*15 + 75)),
			float64(90 + rng.Intn(90)),
			float64(60 + rng.Intn(60)),
		}
	}
	return samples
}

// GenerateRiskCorpus draws labeled (age, bmi, glucose, bp_avg) rows for
// the risk predictor. Labels skew toward glucose and bp so the fitted
// ensemble has real structure to find.
func GenerateRiskCorpus(rng *rand.Rand, n int) ([][4]float64, []int) {
	features := make([][4]float64, n)
	labels := make([]int, n)
	for i := range features {
		features[i] = [4]float64{
			float64(18 + rng.Intn(72)),
			18.5 + rng.Float64()*26.5,
			float64(70 + rng.Intn(230)),
			float64(90 + rng.Intn(70)),
		}

		odds := 0.05
		if features[i][2] > 126 {
			odds += 0.35
		}
		if features[i][3] > 120 {
			odds += 0.25
		}
		if features[i][1] > 30 {
			odds += 0.15
		}
		if rng.Float64() < odds {
			labels[i] = 1
		}
	}
	return features, labels
}

// GenerateClusterCorpus draws (age, bmi, risk_score) rows for k-means.
func GenerateClusterCorpus(rng *rand.Rand, n int) [][3]float64 {
	points := make([][3]float64, n)
	for i := range points {
		points[i] = [3]float64{
			float64(18 + rng.Intn(72)),
			18.5 + rng.Float64()*26.5,
			rng.Float64() * 100,
		}
	}
	return points
}
