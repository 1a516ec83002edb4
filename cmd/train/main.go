// Command train fits the three scoring models against synthetic corpora
// and persists their artifacts. Run it once before serving; the API
// degrades to untrained fallbacks without the artifacts.
package main

import (
	"math/rand"
	"os"
	"time"

	"healthgate/cmd/internal/config"
	"healthgate/cmd/internal/logger"
	"healthgate/cmd/internal/ml"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	rng := rand.New(rand.NewSource(42))
	start := time.Now()

	anomaly := ml.NewAnomalyDetector(cfg.Models.Anomaly, log)
	if err := anomaly.Fit(ml.GenerateVitalsCorpus(rng, 5000), cfg.Simulator.AnomalyProbability); err != nil {
		log.Fatal("anomaly training failed", zap.Error(err))
	}

	risk := ml.NewRiskPredictor(cfg.Models.Risk, log)
	features, labels := ml.GenerateRiskCorpus(rng, 1000)
	if err := risk.Fit(features, labels, 100, 0.1); err != nil {
		log.Fatal("risk training failed", zap.Error(err))
	}

	cluster := ml.NewPatientCluster(cfg.Models.Cluster, log)
	if err := cluster.Fit(ml.GenerateClusterCorpus(rng, 500)); err != nil {
		log.Fatal("cluster training failed", zap.Error(err))
	}

	log.Info("training completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("anomaly", cfg.Models.Anomaly),
		zap.String("risk", cfg.Models.Risk),
		zap.String("cluster", cfg.Models.Cluster),
	)
}
