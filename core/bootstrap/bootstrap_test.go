package bootstrap

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/nftbot/core/config"
	coredatabase "github.com/m3rciful/nftbot/core/database"
)

func noopLogger(*coreconfig.Config) error { return nil }

func TestRunWithoutDatabase(t *testing.T) {
	connectCalled := false
	res, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noopLogger,
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			connectCalled = true
			return nil, nil
		},
	})
	require.NoError(t, err)
	require.Nil(t, res.DB)
	require.False(t, connectCalled)
}

func TestRunConnectsAndMigrates(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "postgres")

	migrated := false
	res, err := Run(Options{
		Config:     &coreconfig.Config{},
		Database:   &coredatabase.Config{Host: "db"},
		LoggerInit: noopLogger,
		Connect:    func(coredatabase.Config) (*sqlx.DB, error) { return db, nil },
		Migrate: func(cfg coredatabase.Config) error {
			migrated = cfg.Host == "db"
			return nil
		},
	})
	require.NoError(t, err)
	require.Same(t, db, res.DB)
	require.True(t, migrated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunClosesDBWhenMigrationFails(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	_, err = Run(Options{
		Config:     &coreconfig.Config{},
		Database:   &coredatabase.Config{},
		LoggerInit: noopLogger,
		Connect:    func(coredatabase.Config) (*sqlx.DB, error) { return sqlx.NewDb(raw, "postgres"), nil },
		Migrate:    func(coredatabase.Config) error { return errors.New("dirty") },
	})
	require.ErrorContains(t, err, "migrations failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(Options{})
	require.Error(t, err)
}
