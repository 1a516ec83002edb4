package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SchemaVersion tags every persisted model artifact. Artifacts written
// with a different version are refused at load time instead of being
// silently served with a stale shape.
const SchemaVersion = 1

// ModelStatus reports whether a scorer is serving a fitted artifact or
// its deterministic fallback.
type ModelStatus string

const (
	StatusTrained   ModelStatus = "trained"
	StatusUntrained ModelStatus = "untrained-fallback"
)

type artifactHeader struct {
	SchemaVersion int    `json:"schema_version"`
	Kind          string `json:"kind"`
}

func saveArtifact(path string, model any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func loadArtifact(path, wantKind string, model any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var header artifactHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return fmt.Errorf("decode artifact header: %w", err)
	}
	if header.SchemaVersion != SchemaVersion {
		return fmt.Errorf("artifact %s has schema version %d, want %d", path, header.SchemaVersion, SchemaVersion)
	}
	if header.Kind != wantKind {
		return fmt.Errorf("artifact %s is a %q model, want %q", path, header.Kind, wantKind)
	}

	return json.Unmarshal(data, model)
}
