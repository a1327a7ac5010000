package filestorage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/yigit/lecturehub/internal/pkg/apperrors"
)

// MinioConfig holds the S3-compatible endpoint settings
type MinioConfig struct {
	Endpoint      string // "host:port" or "https://host:port"
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	PublicBaseURL string // Optional; defaults to <scheme>://<endpoint>/<bucket>
}

// MinioStorage stores objects in an S3-compatible bucket
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// Bare host:port, plain HTTP for a local MinIO
	return raw, false, nil
}

func objectBaseURL(endpoint string, secure bool, bucket, public string) string {
	if public != "" {
		return strings.TrimRight(public, "/")
	}
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return scheme + "://" + endpoint + "/" + bucket
}

// NewMinioStorage connects to the endpoint and makes sure the bucket exists
func NewMinioStorage(ctx context.Context, cfg MinioConfig, logger zerolog.Logger) (*MinioStorage, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("Created storage bucket")
	}

	return &MinioStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: objectBaseURL(endpoint, secure, cfg.Bucket, cfg.PublicBaseURL),
		logger:  logger,
	}, nil
}

// Upload streams the payload into the bucket under a fresh key
func (s *MinioStorage) Upload(ctx context.Context, in UploadInput) (*StoredObject, error) {
	key := objectKey(in.Folder, in.Filename)
	size := in.Size
	if size <= 0 {
		size = -1
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, in.Body, size, minio.PutObjectOptions{
		ContentType: in.ContentType,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to put object")
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug().Str("key", key).Int64("size", info.Size).Msg("Object uploaded")
	return &StoredObject{
		Key:         key,
		URL:         s.baseURL + "/" + key,
		Size:        info.Size,
		ContentType: in.ContentType,
	}, nil
}

// Delete removes an object from the bucket
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

// KeyFromURL extracts the object key from a URL returned by Upload
func (s *MinioStorage) KeyFromURL(rawURL string) (string, error) {
	return keyFromPrefixedURL(s.baseURL, rawURL)
}
