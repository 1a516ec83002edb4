package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, Load().Validate())
}

func TestValidateRejectsInvertedRange(t *testing.T) {
	cfg := Load()
	cfg.Simulator.Ranges.HeartRate = Range{Min: 100, Max: 60}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadProbability(t *testing.T) {
	cfg := Load()
	cfg.Simulator.AnomalyProbability = 1.5
	require.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Simulator.AnomalyProbability = -0.1
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveWindow(t *testing.T) {
	cfg := Load()
	cfg.Simulator.WindowSize = 0
	require.Error(t, cfg.Validate())
}

func TestClamp(t *testing.T) {
	r := Range{Min: 60, Max: 100}
	require.Equal(t, 60.0, r.Clamp(12))
	require.Equal(t, 100.0, r.Clamp(250))
	require.Equal(t, 75.0, r.Clamp(75))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VITALS_WINDOW_SIZE", "60")
	t.Setenv("VITALS_ANOMALY_PROBABILITY", "0.2")
	t.Setenv("ASSISTANT_TIMEOUT", "5s")

	cfg := Load()
	require.Equal(t, 60, cfg.Simulator.WindowSize)
	require.Equal(t, 0.2, cfg.Simulator.AnomalyProbability)
	require.Equal(t, "5s", cfg.Assistant.Timeout.String())
}
