// Package repository stores school records. Every entity shares one generic
// capability set backed by Postgres, optionally fronted by a Redis cache.
package repository

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

// Record is one stored entity. Data holds the entity-specific document.
type Record[T any] struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"schoolId"`
	Data      T         `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows List. Fields match top-level document keys by string equality.
type Filter struct {
	SchoolID string
	Fields   map[string]string
	Limit    int
	Offset   int
}

type Repository[T any] interface {
	Get(ctx context.Context, id string) (*Record[T], error)
	List(ctx context.Context, filter Filter) ([]*Record[T], error)
	Create(ctx context.Context, schoolID string, data T) (*Record[T], error)
	Update(ctx context.Context, id string, data T) (*Record[T], error)
	Delete(ctx context.Context, id string) error
}
