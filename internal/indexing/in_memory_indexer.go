package indexing

import (
	"context"
	"sync"
)

// InMemoryIndexer is a thread-safe fake keyed by collection, then document ID.
type InMemoryIndexer struct {
	mu    sync.RWMutex
	store map[string]map[string]Document
}

func NewInMemoryIndexer() *InMemoryIndexer {
	return &InMemoryIndexer{
		store: make(map[string]map[string]Document),
	}
}

func (i *InMemoryIndexer) HealthCheck(ctx context.Context) error {
	return nil
}

func (i *InMemoryIndexer) Upsert(ctx context.Context, collectionName string, document Document) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.store[collectionName] == nil {
		i.store[collectionName] = make(map[string]Document)
	}
	i.store[collectionName][document.ID] = document
	return nil
}

func (i *InMemoryIndexer) Delete(ctx context.Context, collectionName string, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if bucket, exists := i.store[collectionName]; exists {
		delete(bucket, id)
	}
	return nil
}

// Get lets tests inspect the index.
func (i *InMemoryIndexer) Get(collectionName string, id string) (Document, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	doc, found := i.store[collectionName][id]
	return doc, found
}

func (i *InMemoryIndexer) Count(collectionName string) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.store[collectionName])
}

func (i *InMemoryIndexer) Close() error {
	return nil
}
