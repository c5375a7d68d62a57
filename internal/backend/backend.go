// Package backend selects and wires the configured storage implementation.
package backend

import (
	"fmt"

	"kharcha/internal/config"
	"kharcha/internal/jsonstore"
	"kharcha/internal/log"
	"kharcha/internal/ports"
	"kharcha/internal/storage"
)

// Backend bundles the storage surfaces the application uses. Exports is nil
// for backends without an export queue.
type Backend struct {
	Repo    ports.Repository
	Exports ports.ExportQueue

	closer func() error
}

// New builds the backend named by cfg.DataBackend.
func New(cfg *config.Config, logger *log.Logger) (*Backend, error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("create sqlite backend: %w", err)
		}
		logger.Info("using sqlite backend", "path", cfg.SQLiteDBPath)
		return &Backend{Repo: repo, Exports: repo, closer: repo.Close}, nil

	case "json":
		store, err := jsonstore.Open(cfg.JSONDataPath)
		if err != nil {
			return nil, fmt.Errorf("create json backend: %w", err)
		}
		logger.Info("using json backend", "path", cfg.JSONDataPath)
		return &Backend{Repo: store}, nil

	default:
		return nil, fmt.Errorf("unknown data backend: %s", cfg.DataBackend)
	}
}

func (b *Backend) Close() error {
	if b.closer != nil {
		return b.closer()
	}
	return nil
}
