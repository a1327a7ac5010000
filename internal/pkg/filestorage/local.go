package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalStorage handles saving objects to the local filesystem.
// It is meant for development; objects are served by the HTTP server under baseURL.
type LocalStorage struct {
	basePath string // The root directory where objects are stored
	baseURL  string // Public URL prefix mapped to basePath, e.g. http://localhost:8080/uploads
	logger   zerolog.Logger
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}, nil
}

// BasePath returns the directory objects are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// physicalPath maps a key to a path inside basePath, refusing traversal
func (ls *LocalStorage) physicalPath(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return filepath.Join(ls.basePath, clean), nil
}

// Upload writes the payload below basePath/folder under a unique name
func (ls *LocalStorage) Upload(ctx context.Context, in UploadInput) (*StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := objectKey(in.Folder, in.Filename)
	dstPath, err := ls.physicalPath(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, in.Body)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	ls.logger.Info().Str("filename", in.Filename).Str("key", key).Msg("File saved successfully")
	return &StoredObject{
		Key:         key,
		URL:         ls.baseURL + "/" + key,
		Size:        written,
		ContentType: in.ContentType,
	}, nil
}

// Delete removes an object. Returns nil if the file doesn't exist.
func (ls *LocalStorage) Delete(ctx context.Context, key string) error {
	physicalPath, err := ls.physicalPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			ls.logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		ls.logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// KeyFromURL extracts the key from a URL returned by Upload
func (ls *LocalStorage) KeyFromURL(rawURL string) (string, error) {
	return keyFromPrefixedURL(ls.baseURL, rawURL)
}
