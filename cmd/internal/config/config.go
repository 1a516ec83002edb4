package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Range is an inclusive physiological [Min, Max] bound for one channel.
type Range struct {
	Min float64
	Max float64
}

// VitalRanges holds the clamp bounds per monitored channel.
type VitalRanges struct {
	HeartRate Range
	Systolic  Range
	Diastolic Range
	Glucose   Range
	BMI       Range
}

// ClinicalThresholds drive the alert checks on live vitals.
type ClinicalThresholds struct {
	CriticalHeartRate  Range
	Hypotension        float64
	HypertensionStage1 float64
	HypertensionStage2 float64
	Hypoglycemia       float64
	Hyperglycemia      float64
}

// SimulatorConfig configures the mock vitals feed.
type SimulatorConfig struct {
	WindowSize         int
	UpdateInterval     time.Duration
	AnomalyProbability float64
	Ranges             VitalRanges
}

// AssistantConfig configures the outbound completion-endpoint client.
type AssistantConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ModelPaths locate the persisted scoring artifacts.
type ModelPaths struct {
	Anomaly string
	Risk    string
	Cluster string
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DatabasePath string
	Upload       struct {
		Dir               string
		AllowedExtensions []string
		MaxFileSizeMB     int64
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Assistant  AssistantConfig
	Models     ModelPaths
	Simulator  SimulatorConfig
	Thresholds ClinicalThresholds
	Log        struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":6060")
	cfg.DatabasePath = getEnv("DATABASE_PATH", "healthcare.db")

	cfg.Upload.Dir = getEnv("UPLOAD_DIR", "health_reports")
	cfg.Upload.AllowedExtensions = strings.Split(getEnv("UPLOAD_EXTENSIONS", "pdf,png,jpg,jpeg,csv"), ",")
	cfg.Upload.MaxFileSizeMB = int64(parseInt(getEnv("UPLOAD_MAX_MB", "10"), 10))

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "healthcare-ai-system-2024")
	cfg.Auth.TokenTTL = parseDuration(getEnv("TOKEN_TTL", "1h"), time.Hour)

	cfg.Assistant.BaseURL = getEnv("ASSISTANT_BASE_URL", "https://openrouter.ai/api/v1")
	cfg.Assistant.APIKey = getEnv("ASSISTANT_API_KEY", "")
	cfg.Assistant.Model = getEnv("ASSISTANT_MODEL", "deepseek/deepseek-chat-v3-0324")
	cfg.Assistant.Temperature = parseFloat(getEnv("ASSISTANT_TEMPERATURE", "0.7"), 0.7)
	cfg.Assistant.MaxTokens = parseInt(getEnv("ASSISTANT_MAX_TOKENS", "1024"), 1024)
	cfg.Assistant.Timeout = parseDuration(getEnv("ASSISTANT_TIMEOUT", "20s"), 20*time.Second)

	cfg.Models.Anomaly = getEnv("MODEL_PATH_ANOMALY", "models/anomaly_model.json")
	cfg.Models.Risk = getEnv("MODEL_PATH_RISK", "models/risk_model.json")
	cfg.Models.Cluster = getEnv("MODEL_PATH_CLUSTER", "models/cluster_model.json")

	cfg.Simulator.WindowSize = parseInt(getEnv("VITALS_WINDOW_SIZE", "1440"), 1440)
	cfg.Simulator.UpdateInterval = parseDuration(getEnv("VITALS_UPDATE_INTERVAL", "5s"), 5*time.Second)
	cfg.Simulator.AnomalyProbability = parseFloat(getEnv("VITALS_ANOMALY_PROBABILITY", "0.05"), 0.05)
	cfg.Simulator.Ranges = VitalRanges{
		HeartRate: Range{Min: 60, Max: 100},
		Systolic:  Range{Min: 90, Max: 140},
		Diastolic: Range{Min: 60, Max: 90},
		Glucose:   Range{Min: 70, Max: 200},
		BMI:       Range{Min: 18.5, Max: 35.0},
	}

	cfg.Thresholds = ClinicalThresholds{
		CriticalHeartRate:  Range{Min: 40, Max: 140},
		Hypotension:        90,
		HypertensionStage1: 130,
		HypertensionStage2: 140,
		Hypoglycemia:       70,
		Hyperglycemia:      126,
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

// Validate rejects simulator misconfiguration. A bad range or probability
// is a startup failure, not something to limp along with.
func (c *Config) Validate() error {
	ranges := map[string]Range{
		"heart_rate": c.Simulator.Ranges.HeartRate,
		"systolic":   c.Simulator.Ranges.Systolic,
		"diastolic":  c.Simulator.Ranges.Diastolic,
		"glucose":    c.Simulator.Ranges.Glucose,
		"bmi":        c.Simulator.Ranges.BMI,
	}
	for name, r := range ranges {
		if r.Min >= r.Max {
			return fmt.Errorf("vital range %s: min %.1f must be below max %.1f", name, r.Min, r.Max)
		}
	}
	if p := c.Simulator.AnomalyProbability; p < 0 || p > 1 {
		return fmt.Errorf("anomaly probability %.2f outside [0,1]", p)
	}
	if c.Simulator.WindowSize <= 0 {
		return fmt.Errorf("vitals window size must be positive, got %d", c.Simulator.WindowSize)
	}
	return nil
}

// Clamp bounds v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
