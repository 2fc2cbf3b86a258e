package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest summarizes one batch run.
type Manifest struct {
	Command   string    `json:"command"`
	Generated time.Time `json:"generated"`
	Format    string    `json:"format,omitempty"`
	Bundles   []Result  `json:"bundles"`
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
