package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"edudesk/internal/models"
)

const selectColumns = "id, school_id, data, created_at, updated_at"

// PostgresRepository keeps one table per entity with the document in a JSONB
// column.
type PostgresRepository[T any] struct {
	db    *sql.DB
	table string
	now   func() time.Time
	newID func() string
}

func NewPostgresRepository[T any](db *sql.DB, entity models.EntityType) *PostgresRepository[T] {
	return &PostgresRepository[T]{
		db:    db,
		table: entity.String(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

// Migrate creates the entity table and its school index when missing.
func (r *PostgresRepository[T]) Migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			school_id TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`, r.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_school_id ON %s (school_id)`, r.table, r.table),
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", r.table, err)
		}
	}
	return nil
}

func (r *PostgresRepository[T]) notFound(id string) error {
	return r.notFound(id)
}

// validID reports whether id can name a record. Record IDs are UUIDs; any
// other id is not found without a query.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostgresRepository[T]) Get(ctx context.Context, id string) (*Record[T], error) {
	if !validID(id) {
		return nil, r.notFound(id)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectColumns, r.table)
	rec, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", r.table, id, err)
	}
	return rec, nil
}

func (r *PostgresRepository[T]) List(ctx context.Context, filter Filter) ([]*Record[T], error) {
	query, args := r.listQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	records := []*Record[T]{}
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r.table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return records, nil
}

func (r *PostgresRepository[T]) listQuery(filter Filter) (string, []interface{}) {
	var where []string
	var args []interface{}

	if filter.SchoolID != "" {
		args = append(args, filter.SchoolID)
		where = append(where, fmt.Sprintf("school_id = $%d", len(args)))
	}

	keys := make([]string, 0, len(filter.Fields))
	for k := range filter.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, filter.Fields[k])
		where = append(where, fmt.Sprintf("data->>$%d = $%d", len(args)-1, len(args)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectColumns, r.table)
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func (r *PostgresRepository[T]) Create(ctx context.Context, schoolID string, data T) (*Record[T], error) {
	doc, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.table, err)
	}

	now := r.now()
	rec := &Record[T]{
		ID:        r.newID(),
		SchoolID:  schoolID,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)", r.table, selectColumns)
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.SchoolID, doc, rec.CreatedAt, rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.table, err)
	}
	return rec, nil
}

func (r *PostgresRepository[T]) Update(ctx context.Context, id string, data T) (*Record[T], error) {
	if !validID(id) {
		return nil, r.notFound(id)
	}
	doc, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.table, err)
	}

	rec := &Record[T]{ID: id, Data: data, UpdatedAt: r.now()}
	query := fmt.Sprintf("UPDATE %s SET data = $1, updated_at = $2 WHERE id = $3 RETURNING school_id, created_at", r.table)
	err = r.db.QueryRowContext(ctx, query, doc, rec.UpdatedAt, id).Scan(&rec.SchoolID, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", r.table, id, err)
	}
	return rec, nil
}

func (r *PostgresRepository[T]) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return r.notFound(id)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.table, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.table, id, err)
	}
	if n == 0 {
		return r.notFound(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresRepository[T]) scan(row rowScanner) (*Record[T], error) {
	var rec Record[T]
	var doc []byte
	if err := row.Scan(&rec.ID, &rec.SchoolID, &doc, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &rec.Data); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", r.table, rec.ID, err)
	}
	return &rec, nil
}
