package testutil

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"filemarket/internal/storage"
)

var _ storage.Provider = (*MemoryStorage)(nil)

// MemoryStorage is an in-process storage.Provider.
type MemoryStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	Presigns []storage.UploadConfig
	PutErr   error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: map[string][]byte{}}
}

func objectKey(bucket storage.Bucket, key string) string {
	return string(bucket) + "/" + key
}

func (m *MemoryStorage) GenerateUploadURL(ctx context.Context, cfg storage.UploadConfig) (string, map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Presigns = append(m.Presigns, cfg)
	return "http://storage.local/" + string(cfg.Bucket), map[string]string{"key": cfg.Key}, nil
}

func (m *MemoryStorage) Put(ctx context.Context, obj storage.Object, r io.Reader) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.Seed(obj.Bucket, obj.Key, data)
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, bucket storage.Bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectKey(bucket, key))
	return nil
}

func (m *MemoryStorage) Get(ctx context.Context, bucket storage.Bucket, key string) (io.ReadCloser, error) {
	data, ok := m.Object(bucket, key)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Seed stores data directly, as if a browser had uploaded it.
func (m *MemoryStorage) Seed(bucket storage.Bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey(bucket, key)] = data
}

func (m *MemoryStorage) Object(bucket storage.Bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectKey(bucket, key)]
	return data, ok
}

// Count returns how many objects bucket holds.
func (m *MemoryStorage) Count(bucket storage.Bucket) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := string(bucket) + "/"
	n := 0
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}
