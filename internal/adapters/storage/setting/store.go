package setting

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Entry is one key/value row. Value holds JSON.
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store persists site settings as JSON documents keyed by name.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
}

// Getter is the read half of Store.
type Getter interface {
	Get(ctx context.Context, key string) (Entry, error)
}

// Putter is the write half of Store.
type Putter interface {
	Put(ctx context.Context, entry Entry) error
}

// Load decodes the value under key into dst.
// POST: returns false without error when the key has never been written
func Load(ctx context.Context, s Getter, key string, dst any) (bool, error) {
	e, err := s.Get(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(e.Value, dst); err != nil {
		return false, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}

// Put encodes value and stores it under key.
func Put(ctx context.Context, s Putter, key string, value any, now time.Time) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	return s.Put(ctx, Entry{Key: key, Value: raw, UpdatedAt: now})
}
