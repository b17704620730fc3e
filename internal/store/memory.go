package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a concurrency-safe in-memory Backend.
type MemoryStore struct {
	mu sync.RWMutex

	// key: collection name, then document id
	data map[string]map[string]Document

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Collection returns a view over the named collection.
func (s *MemoryStore) Collection(name string) Collection {
	return &memoryCollection{store: s, name: name}
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

type memoryCollection struct {
	store *MemoryStore
	name  string
}

func (c *memoryCollection) Create(_ context.Context, doc Document) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.data[c.name]
	if !ok {
		docs = make(map[string]Document)
		s.data[c.name] = docs
	}
	if _, exists := docs[doc.ID]; exists {
		return ErrConflict
	}

	now := s.now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Body = append([]byte(nil), doc.Body...)
	docs[doc.ID] = doc
	return nil
}

func (c *memoryCollection) Get(_ context.Context, id string) (Document, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[c.name][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc.Body = append([]byte(nil), doc.Body...)
	return doc, nil
}

func (c *memoryCollection) Update(_ context.Context, doc Document) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[c.name][doc.ID]
	if !ok {
		return ErrNotFound
	}

	existing.Body = append([]byte(nil), doc.Body...)
	if doc.Owner != "" {
		existing.Owner = doc.Owner
	}
	existing.UpdatedAt = s.now()
	s.data[c.name][doc.ID] = existing
	return nil
}

func (c *memoryCollection) List(_ context.Context, owner string) ([]Document, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Document
	for _, doc := range s.data[c.name] {
		if owner != "" && doc.Owner != owner {
			continue
		}
		doc.Body = append([]byte(nil), doc.Body...)
		result = append(result, doc)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
