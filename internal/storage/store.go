package storage

import (
	"context"
	"fmt"
	"strings"

	"pawsconnect/internal/infra"
)

// Store persists uploaded objects and resolves their public URLs.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	URL(key string) string
}

// New returns the store selected by cfg.StorageDriver.
func New(cfg *infra.Config) (Store, error) {
	switch strings.ToLower(cfg.StorageDriver) {
	case "", "filesystem":
		return NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	case "s3":
		return NewS3Store(S3Options{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UseSSL:          cfg.S3UseSSL,
			PublicBaseURL:   cfg.StorageBaseURL,
		})
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.StorageDriver)
	}
}

func joinURL(base, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return key
	}
	return base + "/" + key
}
