package main

import (
	"context"
	"fmt"
	"strings"

	"alumni/config"
	"alumni/session"
	"alumni/utils"
)

// openStorage builds the session storage named by cfg.Storage. The returned
// func releases any connections.
func openStorage(ctx context.Context, cfg *config.Config) (session.Storage, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Storage) {
	case config.StorageMemory:
		return session.NewMemoryStorage(), noop, nil

	case config.StorageFile:
		path := cfg.SessionFile
		if path == "" {
			var err error
			if path, err = utils.DefaultSessionPath(); err != nil {
				return nil, nil, err
			}
		}
		return utils.NewFileStorage(path, cfg.SessionKey), noop, nil

	case config.StorageRedis:
		client, err := utils.OpenRedisPool(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return utils.NewRedisStorage(client, cfg.Namespace, cfg.SessionTTL), func() { client.Close() }, nil

	case config.StoragePostgres:
		db, err := utils.OpenDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := utils.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return utils.NewPostgresStorage(db, cfg.Namespace), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
