package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/nftbot/core/config"
	coretelegram "github.com/m3rciful/nftbot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct{ opts coretelegram.RunOptions }

func (a app) TelegramRunOptions() (coretelegram.RunOptions, error) { return a.opts, nil }

func TestRunRequiresLoaders(t *testing.T) {
	require.ErrorContains(t, Run(Options{}), "LoadConfig is required")
	require.ErrorContains(t, Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return carrier{}, nil },
	}), "Bootstrap is required")
}

func TestRunUsesEnvConfigPath(t *testing.T) {
	t.Setenv("NFTBOT_CONFIG", "/tmp/from-env.yml")

	var loaded string
	var ranWith *coreconfig.Config
	cfg := &coreconfig.Config{}

	err := Run(Options{
		ConfigEnvVar:      "NFTBOT_CONFIG",
		DefaultConfigPath: "config.yml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loaded = path
			return carrier{cfg: cfg}, nil
		},
		Bootstrap: func(c ConfigCarrier) (TelegramApp, error) {
			return app{opts: coretelegram.RunOptions{Config: c.CoreConfig()}}, nil
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			ranWith = opts.Config
			require.NotNil(t, opts.OnStart)
			require.NotNil(t, opts.OnStop)
			return nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-env.yml", loaded)
	require.Same(t, cfg, ranWith)
}

func TestRunRejectsMissingCoreConfig(t *testing.T) {
	err := Run(Options{
		DefaultConfigPath: "config.yml",
		LoadConfig:        func(string) (ConfigCarrier, error) { return carrier{}, nil },
		Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return app{}, nil },
	})
	require.ErrorContains(t, err, "missing core configuration")
}

func TestRunPropagatesBootstrapError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(Options{
		DefaultConfigPath: "config.yml",
		LoadConfig:        func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil },
		Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
	})
	require.ErrorIs(t, err, boom)
}
