package store

import (
	"fmt"
	"log/slog"

	"tally/internal/config"
	"tally/internal/store/memory"
	"tally/internal/store/sqlite"
)

// Result bundles an opened backend with its cleanup hook.
type Result struct {
	Store   Store
	Cleanup func() error
}

// Open selects and initializes the record store named by the config.
func Open(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case config.BackendSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case config.BackendMemory:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.NewSeeded(), Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
