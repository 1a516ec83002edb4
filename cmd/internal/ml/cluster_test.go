package ml

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func trainedCluster(t *testing.T) *PatientCluster {
	t.Helper()
	cluster := NewPatientCluster(filepath.Join(t.TempDir(), "cluster.json"), zap.NewNop())

	rng := rand.New(rand.NewSource(3))
	require.NoError(t, cluster.Fit(GenerateClusterCorpus(rng, 500)))
	return cluster
}

func TestClusterAssignmentIsTotal(t *testing.T) {
	cluster := trainedCluster(t)

	for age := 0.0; age <= 120; age += 15 {
		for risk := 0.0; risk <= 100; risk += 20 {
			label, err := cluster.Predict(age, 27.5, risk)
			require.NoError(t, err)
			require.GreaterOrEqual(t, label, 0)
			require.Less(t, label, NumClusters)
		}
	}
}

func TestClusterUntrainedFallbackIsTierZero(t *testing.T) {
	cluster := NewPatientCluster(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	require.Equal(t, StatusUntrained, cluster.Status())

	label, err := cluster.Predict(70, 34, 95)
	require.NoError(t, err)
	require.Zero(t, label)
}

func TestClusterIsDeterministicForSameInput(t *testing.T) {
	cluster := trainedCluster(t)

	first, err := cluster.Predict(45, 26, 50)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := cluster.Predict(45, 26, 50)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestLoadRefusesWrongSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cluster.json")
	artifact := `{"schema_version": 99, "kind": "cluster", "centroids": [[0,0,0],[1,1,1],[2,2,2],[3,3,3]]}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

	cluster := NewPatientCluster(path, zap.NewNop())
	require.Equal(t, StatusUntrained, cluster.Status())
}

func TestLoadRefusesWrongKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cluster.json")

	trainer := NewPatientCluster(path, zap.NewNop())
	rng := rand.New(rand.NewSource(3))
	require.NoError(t, trainer.Fit(GenerateClusterCorpus(rng, 200)))

	detector := NewAnomalyDetector(path, zap.NewNop())
	require.Equal(t, StatusUntrained, detector.Status())
}
