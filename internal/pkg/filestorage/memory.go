package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage keeps objects in a map. Used by tests and local experiments.
type MemoryStorage struct {
	mu        sync.Mutex
	baseURL   string
	objects   map[string][]byte
	uploads   int
	deletes   int
	UploadErr error // Returned by Upload when set
	DeleteErr error // Returned by Delete when set
}

// NewMemoryStorage creates an empty store whose URLs start with baseURL
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		baseURL: baseURL,
		objects: make(map[string][]byte),
	}
}

// Upload stores the payload
func (m *MemoryStorage) Upload(ctx context.Context, in UploadInput) (*StoredObject, error) {
	m.mu.Lock()
	m.uploads++
	failure := m.UploadErr
	m.mu.Unlock()

	if failure != nil {
		return nil, failure
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	key := objectKey(in.Folder, in.Filename)
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()

	return &StoredObject{
		Key:         key,
		URL:         m.baseURL + "/" + key,
		Size:        int64(len(data)),
		ContentType: in.ContentType,
	}, nil
}

// Delete removes an object
func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, key)
	return nil
}

// KeyFromURL extracts the key from a URL returned by Upload
func (m *MemoryStorage) KeyFromURL(rawURL string) (string, error) {
	return keyFromPrefixedURL(m.baseURL, rawURL)
}

// Object returns a stored payload
func (m *MemoryStorage) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return bytes.Clone(data), ok
}

// Len returns the number of stored objects
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Calls returns how many times Upload and Delete were invoked
func (m *MemoryStorage) Calls() (uploads, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads, m.deletes
}
