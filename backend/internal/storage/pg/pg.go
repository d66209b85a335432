package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/campusdesk/campusdesk/shared/config"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
	"github.com/campusdesk/campusdesk/shared/logger"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
)

//go:embed migrations/init.sql
var schema string

type Querier = shared_pg.Querier

type Storage struct {
	db      *sql.DB
	timeout time.Duration
}

// New connects, applies the schema and returns a ready Storage.
func New(ctx context.Context, cfg *config.Config, connCfg shared_pg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to database", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := shared_pg.Connect(ctx, cfg.Private.Pg, connCfg)
	if err != nil {
		return nil, err
	}
	storage := &Storage{db: db, timeout: cfg.QueryTimeout()}
	if err := storage.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Log.Info("database ready")
	return storage, nil
}

// NewWithDB wraps an already opened pool without touching the schema.
func NewWithDB(db *sql.DB, timeout time.Duration) *Storage {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Storage{db: db, timeout: timeout}
}

func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return internal_errors.WrapStore("Migrate", fmt.Errorf("failed to apply schema: %w", err))
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// bounded limits a single storage call to the configured query timeout.
func (s *Storage) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return shared_pg.WithTx(ctx, s.db, fn)
}

// notFoundOr maps sql.ErrNoRows to a not-found status for what and tags
// anything else as a store failure of op.
func notFoundOr(op, what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NewNotFound(what)
	}
	return internal_errors.WrapStore(op, err)
}

// affected reports whether an Exec touched at least one row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n > 0, nil
}
