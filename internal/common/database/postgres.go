package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"edudesk/internal/common/config"
)

const (
	defaultMaxOpenConns = 25
	connMaxLifetime     = 5 * time.Minute
)

// RecordStore is the Postgres pool behind the school record repositories.
type RecordStore struct {
	DB       *sql.DB
	database string
}

// OpenRecordStore sizes a pool for cfg. It does not dial; call Ping.
func OpenRecordStore(cfg config.PostgresConfig) (*RecordStore, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open record store %s: %w", cfg.Database, err)
	}

	maxOpen := cfg.MaxConnections
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(cfg.MaxIdle, maxOpen))
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxLifetime)

	return NewRecordStore(db, cfg.Database), nil
}

func NewRecordStore(db *sql.DB, database string) *RecordStore {
	return &RecordStore{DB: db, database: database}
}

func (s *RecordStore) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("record store %s unreachable: %w", s.database, err)
	}
	return nil
}

// InUse is the number of pooled connections currently running a query.
func (s *RecordStore) InUse() int {
	return s.DB.Stats().InUse
}

func (s *RecordStore) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
