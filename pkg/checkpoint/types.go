package checkpoint

import (
	"encoding/json"
	"time"
)

// Manifest records the outcome of the last acquisition run.
type Manifest struct {
	// Version of the manifest format
	Version string `json:"version"`

	RunID string `json:"run_id"`

	// Configuration hash to detect config changes between runs
	ConfigHash string `json:"config_hash"`

	// Final controller state ("running" when the run aborted)
	State string `json:"state"`

	SavedAt time.Time `json:"saved_at"`

	Statistics *Stats `json:"statistics,omitempty"`

	// Report is the full acquisition report as written by the caller
	Report json.RawMessage `json:"report,omitempty"`
}

// Stats contains the acquisition counters
type Stats struct {
	Descriptors int `json:"descriptors"`
	Placed      int `json:"placed"`
	Duplicates  int `json:"duplicates"`
	Ignored     int `json:"ignored"`
	Failures    int `json:"failures"`
}

// ManifestVersion is the current manifest format version
const ManifestVersion = "1.0"
