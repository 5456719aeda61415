package app

import (
	"fmt"

	coreconfig "github.com/m3rciful/nftbot/core/config"
	coredatabase "github.com/m3rciful/nftbot/core/database"
	"github.com/m3rciful/nftbot/internal/anomaly"
	"github.com/m3rciful/nftbot/internal/nftapi"
)

// JournalConfig toggles the postgres lookup journal.
type JournalConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"JOURNAL_ENABLED"`
}

// Config is the full bot configuration: the shared core plus NFT specifics.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	NFTAPI   nftapi.Config       `yaml:"nftapi"`
	Anomaly  anomaly.Config      `yaml:"anomaly"`
	Journal  JournalConfig       `yaml:"journal"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// DatabaseConfig returns the database settings, or nil when the journal is off.
func (c *Config) DatabaseConfig() *coredatabase.Config {
	if c == nil || !c.Journal.Enabled {
		return nil
	}
	return &c.Database
}

// LoadConfig reads YAML, applies environment overrides and validates every section.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.NFTAPI.Normalize(); err != nil {
		return err
	}
	if err := c.Anomaly.Normalize(); err != nil {
		return err
	}
	if c.Journal.Enabled {
		if err := c.Database.Normalize(); err != nil {
			return fmt.Errorf("journal enabled: %w", err)
		}
	}
	return nil
}
