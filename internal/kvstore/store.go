// Package kvstore holds named string slots, the server-side counterpart of the browser's localStorage.
package kvstore

import (
	"context"
	"fmt"

	"github.com/scrollcal/scrollcal/internal/config"
	"github.com/scrollcal/scrollcal/internal/database"
	log "github.com/sirupsen/logrus"
)

type Store interface {
	// Get returns the value stored under key. found is false when the slot was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the slot.
	Set(ctx context.Context, key string, value string) error
	Close() error
}

// Open builds the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg config.Application) (Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("Using in-memory storage, schedules will not survive a restart")
		return NewMemoryStore(), nil
	case "file", "":
		log.Infof("Using file storage at %s", cfg.Storage.File.Path)
		return NewFileStore(cfg.Storage.File.Path), nil
	case "postgres":
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Infof("Using postgres storage at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return NewPostgresStore(pool), nil
	case "redis":
		store, err := NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Infof("Using redis storage at %s", cfg.Redis.Addr)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
