package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3Store(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	tests := []struct {
		name    string
		opts    S3Options
		wantErr bool
	}{
		{name: "bucket and region", opts: S3Options{Bucket: "artifacts", Region: "us-east-1"}},
		{name: "custom endpoint", opts: S3Options{Bucket: "artifacts", Region: "us-east-1", Endpoint: "http://localhost:9000"}},
		{name: "empty bucket", opts: S3Options{Region: "us-east-1"}, wantErr: true},
		{name: "empty region", opts: S3Options{Bucket: "artifacts"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewS3Store(context.Background(), tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.opts.Bucket, store.bucket)
			assert.Equal(t, defaultPresignExpiry, store.presignExpiry)
		})
	}
}

func TestS3Store_ObjectKey(t *testing.T) {
	store := &S3Store{bucket: "artifacts", prefix: "ci/main", presignExpiry: time.Minute}

	key, err := store.objectKey("run-1/screenshots/login.png")
	require.NoError(t, err)
	assert.Equal(t, "ci/main/run-1/screenshots/login.png", key)

	_, err = store.objectKey("../escape.png")
	assert.ErrorIs(t, err, ErrInvalidPath)

	store.prefix = ""
	key, err = store.objectKey("run-1/report/index.html")
	require.NoError(t, err)
	assert.Equal(t, "run-1/report/index.html", key)
}
