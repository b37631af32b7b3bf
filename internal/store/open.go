package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Supported backend kinds.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

// Options selects and configures a Backend.
type Options struct {
	Kind       string
	SQLitePath string
	RedisAddr  string
	Retention  time.Duration // how long old days are kept
}

// Open builds the Backend described by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case "", KindMemory:
		return NewMemory(), nil

	case KindSQLite:
		b, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", opts.SQLitePath, err)
		}
		if opts.Retention > 0 {
			n, err := b.Prune(ctx, opts.Retention)
			if err != nil {
				log.Warn().Err(err).Msg("prune stale sessions")
			} else if n > 0 {
				log.Info().Int64("rows", n).Msg("pruned stale sessions")
			}
		}
		return b, nil

	case KindRedis:
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		b, err := NewRedis(&RedisConfig{RedisClient: client, TTL: opts.Retention})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Kind)
	}
}
