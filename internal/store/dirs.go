package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	envDataDir   = "CASE_DATA"
	envConfigDir = "CASE_CONFIG"

	appDirName     = "case"
	sqliteFileName = "case.sqlite"
	configFileName = "config.json"
)

// DataDir is where the database and log live: $CASE_DATA, else
// $XDG_DATA_HOME/case, else ~/.local/share/case.
func DataDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(envDataDir)); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); v != "" {
		return filepath.Join(v, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

// ConfigDir is $CASE_CONFIG, else the platform config dir plus "case".
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching the real config).
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
