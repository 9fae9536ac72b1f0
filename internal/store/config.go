package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Config struct {
	// LogLevel is a logrus level name; CASE_LOG_LEVEL overrides it.
	LogLevel string `json:"logLevel,omitempty"`

	// ReplicaID identifies this machine's copy of the outline in exports.
	ReplicaID string `json:"replicaId,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// HideDescriptions turns off the task description pane.
	HideDescriptions bool `json:"hideDescriptions,omitempty"`
	// MarkdownStyle is a glamour standard style ("auto", "dark", "light", "notty").
	MarkdownStyle string `json:"markdownStyle,omitempty"`
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config; ignore errors so a bad backup never blocks a save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Unique temp name so the CLI and a running TUI never clobber each other.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// EnsureReplicaID assigns and persists a replica id the first time it is needed.
func EnsureReplicaID(cfg *Config) (string, error) {
	if cfg == nil {
		return "", errors.New("nil config")
	}
	if id := strings.TrimSpace(cfg.ReplicaID); id != "" {
		return id, nil
	}
	cfg.ReplicaID = uuid.NewString()
	if err := SaveConfig(cfg); err != nil {
		return "", err
	}
	return cfg.ReplicaID, nil
}
