package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Docs is a typed view over a Collection that encodes values as JSON.
type Docs[T any] struct {
	c Collection
}

// NewDocs wraps c.
func NewDocs[T any](c Collection) Docs[T] {
	return Docs[T]{c: c}
}

// Create stores v under id for owner.
func (d Docs[T]) Create(ctx context.Context, id, owner string, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	return d.c.Create(ctx, Document{ID: id, Owner: owner, Body: body})
}

// Get loads the value stored under id.
func (d Docs[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	doc, err := d.c.Get(ctx, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(doc.Body, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", id, err)
	}
	return v, nil
}

// Update replaces the value stored under id.
func (d Docs[T]) Update(ctx context.Context, id string, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	return d.c.Update(ctx, Document{ID: id, Body: body})
}

// List decodes every document owned by owner, or all when owner is empty.
func (d Docs[T]) List(ctx context.Context, owner string) ([]T, error) {
	docs, err := d.c.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc.Body, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}
