package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrArtifactNotFound is returned when no artifact is stored under a key.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidPath is returned when a key is empty, absolute or escapes the store root.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedType is returned when the store type is unknown.
	ErrUnsupportedType = errors.New("unsupported storage type")
)

// ArtifactStore keeps test artifacts (screenshots, videos, traces, reports)
// under slash-separated keys.
type ArtifactStore interface {
	// Put stores the content of r under key.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Get opens the artifact stored under key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the artifact stored under key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an artifact is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns a location the artifact can be fetched from: a filesystem
	// path for local stores, a presigned URL for S3.
	URL(ctx context.Context, key string) (string, error)
}

// Type names an ArtifactStore backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// Config selects and configures a backend.
type Config struct {
	Type Type

	// BaseDir is the root directory of a local store.
	BaseDir string

	// S3 settings. Endpoint is only needed for S3-compatible services.
	Bucket        string
	Region        string
	Prefix        string
	Endpoint      string
	PresignExpiry time.Duration
}

// New creates the ArtifactStore described by cfg.
func New(ctx context.Context, cfg Config) (ArtifactStore, error) {
	switch Type(strings.ToLower(string(cfg.Type))) {
	case TypeLocal:
		if cfg.BaseDir == "" {
			return nil, fmt.Errorf("base_dir is required for local storage")
		}
		return NewLocalStore(cfg.BaseDir)

	case TypeS3:
		s3Store, err := NewS3Store(ctx, S3Options{
			Bucket:        cfg.Bucket,
			Region:        cfg.Region,
			Prefix:        cfg.Prefix,
			Endpoint:      cfg.Endpoint,
			PresignExpiry: cfg.PresignExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return s3Store, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
}

// cleanKey normalises key to a relative slash path and rejects anything that
// would escape the store root.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: key cannot be empty", ErrInvalidPath)
	}

	slashed := filepath.ToSlash(key)
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(key) {
		return "", fmt.Errorf("%w: absolute keys not allowed", ErrInvalidPath)
	}

	cleaned := path.Clean(slashed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: path traversal detected", ErrInvalidPath)
	}

	return cleaned, nil
}
