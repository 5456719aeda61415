package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/nftbot/core/logger"
)

// RunMigrations applies all up migrations from cfg.MigrationsDir.
// Callers connect first, so the server is already known to be up.
func RunMigrations(cfg Config) error {
	ctx := logger.Background()

	migrationsPath, err := resolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	files := listMigrationFiles(migrationsPath)
	logger.Debug(ctx, "db.migrate", "migrate.resolve", fileAttrs(files,
		slog.String("path", migrationsPath),
	)...)

	m, err := migrate.New("file://"+migrationsPath, cfg.URL())
	if err != nil {
		logger.Error(ctx, "db.migrate", "migrate.init",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	fromVer, _, _ := m.Version()
	start := time.Now()
	upErr := m.Up()
	took := logger.RoundMS(time.Since(start))

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.Error(ctx, "db.migrate", "migrate.apply",
			slog.String("status", "fail"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	toVer, _, _ := m.Version()
	applied := selectApplied(files, uint64(fromVer), uint64(toVer))
	if len(applied) > 0 {
		logger.Debug(ctx, "db.migrate", "migrate.applied", fileAttrs(applied)...)
	}
	logger.Info(ctx, "db.migrate", "migrate.summary",
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

func fileAttrs(files []string, extra ...slog.Attr) []slog.Attr {
	attrs := append(extra, slog.Int("files_total", len(files)))
	preview, truncated := logger.SummarizeStrings(files, 6)
	if preview != "" {
		attrs = append(attrs, slog.String("files_preview", preview))
	}
	if truncated {
		attrs = append(attrs, slog.Bool("files_truncated", true))
	}
	return attrs
}

func resolveMigrationsDir(dir string) (string, error) {
	if dir == "" {
		dir = "migrations"
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, dir), nil
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) == 0 {
		return 0
	}
	v, _ := strconv.ParseUint(parts[0], 10, 64)
	return v
}

func selectApplied(files []string, from, to uint64) []string {
	var out []string
	for _, f := range files {
		v := parseVersion(f)
		if v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
