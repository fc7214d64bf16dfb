package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoManifest is returned by Load when no manifest has been written yet.
var ErrNoManifest = fmt.Errorf("no manifest found")

// Manager writes and reads the acquisition manifest
type Manager struct {
	path       string
	runID      string
	configHash string
	logger     *logrus.Entry
}

// NewManager creates a manager for the manifest at path. Every manager gets
// a fresh run id.
func NewManager(path string, config interface{}) (*Manager, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest path cannot be empty")
	}
	return &Manager{
		path:       path,
		runID:      uuid.New().String(),
		configHash: calculateConfigHash(config),
		logger:     logrus.WithField("component", "manifest"),
	}, nil
}

// RunID returns the identifier stamped on manifests saved by this manager.
func (m *Manager) RunID() string {
	return m.runID
}

// Path returns the manifest location.
func (m *Manager) Path() string {
	return m.path
}

// Save writes the manifest atomically, replacing any previous one. report
// is marshalled as-is into the manifest's report field.
func (m *Manager) Save(state string, stats Stats, report interface{}) error {
	var raw json.RawMessage
	if report != nil {
		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		raw = data
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		RunID:      m.runID,
		ConfigHash: m.configHash,
		State:      state,
		SavedAt:    time.Now(),
		Statistics: &stats,
		Report:     raw,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := WriteAtomic(m.path, data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	m.logger.WithFields(logrus.Fields{"path": m.path, "run_id": m.runID}).Info("Manifest saved")
	return nil
}

// Load reads the manifest from disk. A missing manifest returns
// ErrNoManifest.
func (m *Manager) Load() (*Manifest, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s", ErrNoManifest, m.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest (possibly corrupted): %w", err)
	}

	// Basic validation
	if manifest.Version == "" || manifest.RunID == "" {
		return nil, fmt.Errorf("invalid manifest: missing required fields")
	}

	// Check for config changes (warning only, not an error)
	if manifest.ConfigHash != m.configHash {
		m.logger.WithFields(logrus.Fields{
			"manifest": manifest.ConfigHash,
			"current":  m.configHash,
		}).Warn("Configuration changed since the manifest was written")
	}

	return &manifest, nil
}

// calculateConfigHash computes a hash of the configuration for change detection
func calculateConfigHash(config interface{}) string {
	if config == nil {
		return "no-config"
	}

	data, err := json.Marshal(config)
	if err != nil {
		return "hash-error"
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
