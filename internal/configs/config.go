package configs

import (
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/devices"
	"github.com/PolarWolf314/pinsign/internal/keys"
)

// Config is the user configuration stored in config.toml.
type Config struct {
	Keys    KeysConfig    `toml:"keys"`
	Signing SigningConfig `toml:"signing"`
	Devices DevicesConfig `toml:"devices"`
	Audit   AuditConfig   `toml:"audit"`
}

type KeysConfig struct {
	Bits int `toml:"bits"`
}

type SigningConfig struct {
	OutputSuffix string `toml:"output_suffix"`
}

type DevicesConfig struct {
	MountPrefixes []string `toml:"mount_prefixes"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Keys:    KeysConfig{Bits: keys.DefaultKeyBits},
		Signing: SigningConfig{OutputSuffix: "_signed"},
		Devices: DevicesConfig{MountPrefixes: devices.DefaultMountPrefixes()},
		Audit:   AuditConfig{Enabled: true},
	}
}

// Validate returns an error wrapping ErrInvalidConfig describing the first
// invalid value.
func (c *Config) Validate() error {
	if c.Keys.Bits < keys.MinKeyBits {
		return fmt.Errorf("%w: keys.bits must be at least %d, got %d", kerrors.ErrInvalidConfig, keys.MinKeyBits, c.Keys.Bits)
	}
	if c.Signing.OutputSuffix == "" {
		return fmt.Errorf("%w: signing.output_suffix must not be empty", kerrors.ErrInvalidConfig)
	}
	for _, prefix := range c.Devices.MountPrefixes {
		if prefix == "" {
			return fmt.Errorf("%w: devices.mount_prefixes must not contain empty entries", kerrors.ErrInvalidConfig)
		}
	}
	return nil
}

// LoadConfig reads the config file at PinsignSettings.ConfigPath. A missing
// file yields DefaultConfig. Values absent from the file keep their defaults.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(PinsignSettings.ConfigPath)
}

// LoadConfigFrom is LoadConfig for an explicit path.
func LoadConfigFrom(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: failed to load %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig validates config and writes it to PinsignSettings.ConfigPath.
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(PinsignSettings.ConfigPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ConfigExists reports whether a config file is present.
func ConfigExists() bool {
	_, err := os.Stat(PinsignSettings.ConfigPath)
	return err == nil
}
