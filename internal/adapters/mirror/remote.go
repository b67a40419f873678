package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"coachsite/internal/adapters/storage"
)

// ErrUnknownCollection is returned for a collection without a mirror table.
var ErrUnknownCollection = errors.New("unknown mirror collection")

// Remote writes documents to per-collection tables named <prefix>_<collection>.
// Each table is (id TEXT PRIMARY KEY, doc JSONB, updated_at TIMESTAMPTZ).
// Deletes leave a row in <prefix>_tombstones so a late upsert cannot bring
// the document back.
type Remote struct {
	db     *sql.DB
	prefix string
}

// NewRemote creates a Remote over an open Postgres connection.
func NewRemote(db *sql.DB, prefix string) *Remote {
	return &Remote{db: db, prefix: prefix}
}

// Table returns the table backing collection.
func (r *Remote) Table(collection string) (string, error) {
	if !slices.Contains(storage.Collections, collection) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return r.prefix + "_" + collection, nil
}

// EnsureSchema creates any missing mirror tables.
// POST: every storage collection has a table
func (r *Remote) EnsureSchema(ctx context.Context) error {
	for _, c := range storage.Collections {
		table, _ := r.Table(c)
		_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+table+` (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
		if err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+r.tombstones()+` (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		deleted_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (collection, id)
	)`)
	if err != nil {
		return fmt.Errorf("create %s: %w", r.tombstones(), err)
	}
	return nil
}

func (r *Remote) tombstones() string {
	return r.prefix + "_tombstones"
}

// Upsert writes doc under id. An older updatedAt never overwrites a newer row,
// and a document deleted at or after updatedAt stays deleted.
func (r *Remote) Upsert(ctx context.Context, collection, id string, doc json.RawMessage, updatedAt time.Time) error {
	table, err := r.Table(collection)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (id, doc, updated_at)
		 SELECT $1::text, $2::jsonb, $3::timestamptz
		 WHERE NOT EXISTS (
			SELECT 1 FROM `+r.tombstones()+`
			WHERE collection = $4 AND id = $1 AND deleted_at >= $3::timestamptz
		 )
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
		 WHERE `+table+`.updated_at <= EXCLUDED.updated_at`,
		id, string(doc), updatedAt.UTC(), collection)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete records a tombstone at deletedAt and removes id unless the row was
// written after it. Deleting a missing row is not an error.
func (r *Remote) Delete(ctx context.Context, collection, id string, deletedAt time.Time) error {
	table, err := r.Table(collection)
	if err != nil {
		return err
	}
	tombs := r.tombstones()
	_, err = r.db.ExecContext(ctx,
		`WITH tomb AS (
			INSERT INTO `+tombs+` (collection, id, deleted_at) VALUES ($1, $2, $3)
			ON CONFLICT (collection, id) DO UPDATE
			SET deleted_at = GREATEST(`+tombs+`.deleted_at, EXCLUDED.deleted_at)
		 )
		 DELETE FROM `+table+` WHERE id = $2 AND updated_at <= $3`,
		collection, id, deletedAt.UTC())
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping checks the remote connection.
func (r *Remote) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
