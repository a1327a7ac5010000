package filestorage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrForeignURL is returned when a URL was not produced by the store asked to parse it
var ErrForeignURL = errors.New("url does not belong to this store")

// UploadInput describes one object to store
type UploadInput struct {
	Folder      string    // Logical folder, e.g. "lecture-materials"
	Filename    string    // Original client filename, used for the extension only
	Body        io.Reader // Object content
	Size        int64     // Byte size, -1 when unknown
	ContentType string    // Detected MIME type
}

// StoredObject describes an object after a successful upload
type StoredObject struct {
	Key         string // Store-relative identifier, used for deletion
	URL         string // Durable URL persisted as the material filepath
	Size        int64
	ContentType string
}

// BlobStore is the object storage gateway used by the material catalog
type BlobStore interface {
	// Upload stores the payload and returns its durable URL
	Upload(ctx context.Context, in UploadInput) (*StoredObject, error)

	// Delete removes an object by key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// KeyFromURL parses the key out of a URL previously returned by Upload
	KeyFromURL(rawURL string) (string, error)
}

// objectKey builds a collision-free key under folder keeping the original extension
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := uuid.New().String() + ext
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// keyFromPrefixedURL strips base + "/" from rawURL
func keyFromPrefixedURL(base, rawURL string) (string, error) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" || strings.Contains(key, "..") {
		return "", ErrForeignURL
	}
	return key, nil
}
