package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/logging"
)

const createTokensTable = `
CREATE TABLE IF NOT EXISTS session_tokens (
	key        TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps the token in a single-row table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, waits for the database to answer, and makes sure
// the table exists.
func OpenPostgres(ctx context.Context, databaseURL string, poolSize int) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if poolSize > 0 {
		poolConfig.MaxConns = int32(poolSize)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := waitForDB(ctx, pool, 30); err != nil {
		pool.Close()
		return nil, err
	}

	s := NewPostgresStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, attempts int) error {
	log := logging.WithComponent("identity")
	for i := 0; i < attempts; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Info().Msgf("[identity] waiting for database... (%d/%d)", i+1, attempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after %ds", attempts)
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTokensTable); err != nil {
		return fmt.Errorf("create session_tokens table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT token, created_at FROM session_tokens WHERE key = $1`,
		tokenKey,
	).Scan(&rec.Token, &rec.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, domain.ErrTokenNotFound
		}
		return Record{}, fmt.Errorf("query session token: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_tokens (key, token, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET token = EXCLUDED.token, created_at = EXCLUDED.created_at`,
		tokenKey, rec.Token, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session token: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM session_tokens WHERE key = $1`, tokenKey); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
