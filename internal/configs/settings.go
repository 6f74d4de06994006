package configs

import (
	"os"
	"path/filepath"
)

const (
	appName = "pinsign"

	// ConfigDirEnv and DataDirEnv override the platform directories.
	ConfigDirEnv = "PINSIGN_CONFIG_DIR"
	DataDirEnv   = "PINSIGN_DATA_DIR"
)

// Settings holds the resolved on-disk locations pinsign uses.
type Settings struct {
	ConfigDir    string
	DataDir      string
	ConfigPath   string
	AuditLogPath string
}

// PinsignSettings is resolved once at startup. Tests replace it.
var PinsignSettings *Settings

func init() {
	PinsignSettings = ResolveSettings()
}

// ResolveSettings computes Settings from the environment. It never fails:
// when the platform directories cannot be determined it falls back to a
// ".pinsign" directory under the working directory.
func ResolveSettings() *Settings {
	configDir := os.Getenv(ConfigDirEnv)
	if configDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			configDir = filepath.Join(dir, appName)
		} else {
			configDir = filepath.Join(".pinsign", "config")
		}
	}

	dataDir := os.Getenv(DataDirEnv)
	if dataDir == "" {
		dataDir = defaultDataDir()
	}

	return &Settings{
		ConfigDir:    configDir,
		DataDir:      dataDir,
		ConfigPath:   filepath.Join(configDir, "config.toml"),
		AuditLogPath: filepath.Join(dataDir, "audit.jsonl"),
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pinsign", "data")
	}
	return filepath.Join(homeDir, ".local", "share", appName)
}
