package workflows

import (
	"context"

	"github.com/PolarWolf314/pinsign/internal/configs"
	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
)

// ConfigInitResult contains the outcome of writing the default config.
type ConfigInitResult struct {
	Path        string
	Config      *configs.Config
	Overwritten bool
}

// ConfigInit writes the default configuration file.
//
// Returns ErrConfigExists if a config file is present and force is false.
func ConfigInit(ctx context.Context, force bool) (*ConfigInitResult, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	exists := configs.ConfigExists()
	if exists && !force {
		return nil, kerrors.ErrConfigExists
	}

	config := configs.DefaultConfig()
	if err := configs.SaveConfig(config); err != nil {
		return nil, err
	}

	return &ConfigInitResult{
		Path:        configs.PinsignSettings.ConfigPath,
		Config:      config,
		Overwritten: exists,
	}, nil
}

// ConfigShowResult contains the effective configuration.
type ConfigShowResult struct {
	Path         string
	AuditLogPath string
	Config       *configs.Config

	// FromFile is false when defaults are in effect because no file exists.
	FromFile bool
}

// ConfigShow loads the effective configuration.
//
// Returns ErrInvalidConfig if the file exists but is invalid.
func ConfigShow(ctx context.Context) (*ConfigShowResult, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return &ConfigShowResult{
		Path:         configs.PinsignSettings.ConfigPath,
		AuditLogPath: configs.PinsignSettings.AuditLogPath,
		Config:       config,
		FromFile:     configs.ConfigExists(),
	}, nil
}
