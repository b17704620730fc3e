package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no document exists for the requested key.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when creating a document whose key is taken.
	ErrConflict = errors.New("document already exists")
)

// Document is a JSON body stored under a key and an optional owner.
type Document struct {
	ID        string
	Owner     string
	Body      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Collection is a keyed set of documents.
type Collection interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	Update(ctx context.Context, doc Document) error
	// List returns documents owned by owner, newest first. An empty owner lists all.
	List(ctx context.Context, owner string) ([]Document, error)
}

// Backend hands out named collections.
type Backend interface {
	Collection(name string) Collection
	Close() error
}
