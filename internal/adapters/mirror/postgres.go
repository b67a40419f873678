// Package mirror copies local records to a hosted Postgres database.
package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel/attribute"
)

var sqlOpen = sql.Open

// Open connects to Postgres through the pgx stdlib driver wrapped by otelsql.
// PRE: dsn is a postgres:// URL
// POST: connection verified with a ping bounded by timeout
func Open(ctx context.Context, dsn string, maxOpenConns int, timeout time.Duration) (*sql.DB, error) {
	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("remote db ping: %w", err)
	}
	return db, nil
}
