package identity

import (
	"context"
	"fmt"
	"time"
)

const (
	BackendBadger   = "badger"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend     string
	BadgerDir   string
	RedisURL    string
	RedisTTL    time.Duration
	DatabaseURL string
	DBPoolSize  int
}

// Open builds the store named by cfg.Backend and wraps it in Tokens.
func Open(ctx context.Context, cfg Config) (*Tokens, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendBadger, "":
		store, err = OpenBadger(cfg.BadgerDir)
	case BackendRedis:
		store, err = OpenRedis(ctx, cfg.RedisURL, cfg.RedisTTL)
	case BackendPostgres:
		store, err = OpenPostgres(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	default:
		return nil, fmt.Errorf("unknown identity backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewTokens(store), nil
}
