package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionRecord describes one launch of the isolated environment. It is
// written into the workspace directory so `packhero status` can report what
// ran last. Records are informational only; the launcher never resumes from
// them.
type SessionRecord struct {
	SchemaVersion   string    `json:"schema_version"`
	RunID           string    `json:"run_id"`
	InstanceName    string    `json:"instance_name"`
	ImageName       string    `json:"image_name"`
	EnvironmentFile string    `json:"environment_file,omitempty"`
	LastStep        string    `json:"last_step"`
	ExitCode        int       `json:"exit_code"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const (
	RecordFileName      = ".packhero.session.json"
	RecordSchemaVersion = "1.0"
)

// newRecord creates the record for a fresh launch.
func newRecord(runID, instanceName, imageName, environmentFile string) *SessionRecord {
	now := time.Now()
	return &SessionRecord{
		SchemaVersion:   RecordSchemaVersion,
		RunID:           runID,
		InstanceName:    instanceName,
		ImageName:       imageName,
		EnvironmentFile: environmentFile,
		LastStep:        "",
		StartedAt:       now,
		UpdatedAt:       now,
	}
}

// save persists the record into the workspace directory.
func (r *SessionRecord) save(workspaceDir string) error {
	r.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session record: %w", err)
	}

	recordPath := filepath.Join(workspaceDir, RecordFileName)
	if err := os.WriteFile(recordPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}

	return nil
}

// loadRecord reads the last session record from the workspace directory.
// Returns nil if no record exists.
func loadRecord(workspaceDir string) (*SessionRecord, error) {
	recordPath := filepath.Join(workspaceDir, RecordFileName)
	if _, err := os.Stat(recordPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(recordPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var record SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse session record: %w", err)
	}

	return &record, nil
}
