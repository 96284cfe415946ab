/*
File: metrics_writer.go
Description: Persists fuzzing campaign metrics as timestamped JSON files for
later comparison between engine configurations and versions.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CampaignMetrics is the on-disk snapshot of one fuzzing run.
type CampaignMetrics struct {
	Engine              string      `json:"engine"`
	Target              string      `json:"target"`
	Seed                int64       `json:"seed"`
	Iterations          int64       `json:"iterations"`
	Crashes             int64       `json:"crashes"`
	Timeouts            int64       `json:"timeouts"`
	NewCoverageEvents   int64       `json:"new_coverage_events"`
	CorpusSize          int         `json:"corpus_size"`
	CoveragePercent     float64     `json:"coverage_percent"`
	ExecutionsPerSecond float64     `json:"executions_per_second"`
	DurationSeconds     float64     `json:"duration_seconds"`
	MutatorStats        interface{} `json:"mutator_stats"`
	Timestamp           time.Time   `json:"timestamp"`
}

// WriteCampaignMetrics writes a CampaignMetrics snapshot to
// <outputDir>/metrics/<timestamp>_<engine>.json and returns the file path.
func WriteCampaignMetrics(outputDir string, metrics *CampaignMetrics) (string, error) {
	if metrics == nil {
		return "", fmt.Errorf("metrics cannot be nil")
	}

	dir := filepath.Join(outputDir, "metrics")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create metrics directory: %w", err)
	}

	metrics.Timestamp = time.Now()
	name := fmt.Sprintf("%s_%s.json", metrics.Timestamp.Format("2006-01-02_15-04-05"), metrics.Engine)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metrics file: %w", err)
	}
	return path, nil
}
