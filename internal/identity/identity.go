// Package identity keeps the opaque session token that ties this client to
// its session on the recommender.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/actuallystonmai/food-swipe/internal/domain"
)

// tokenKey is the single key every store keeps the token under.
const tokenKey = "sid"

// Record is what a store persists.
type Record struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists at most one Record. Load returns domain.ErrTokenNotFound
// when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Tokens hands out the session token, minting a UUIDv4 on first use.
type Tokens struct {
	store Store
	now   func() time.Time

	mu sync.Mutex
}

func NewTokens(store Store) *Tokens {
	return &Tokens{store: store, now: time.Now}
}

func (t *Tokens) GetOrCreateToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.store.Load(ctx)
	if err == nil && rec.Token != "" {
		return rec.Token, nil
	}
	if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		return "", fmt.Errorf("load session token: %w", err)
	}

	rec = Record{Token: uuid.NewString(), CreatedAt: t.now().UTC()}
	if err := t.store.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("save session token: %w", err)
	}
	return rec.Token, nil
}

// ClearToken forgets the token. Clearing an empty store is not an error.
func (t *Tokens) ClearToken(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Delete(ctx); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

// Ping checks the backing store.
func (t *Tokens) Ping(ctx context.Context) error {
	return t.store.Ping(ctx)
}

func (t *Tokens) Close() error {
	return t.store.Close()
}
