package publish

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/runnerconf/logger"
	"github.com/hairizuan-noorazman/runnerconf/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{name: "login-chromium/test-failed-1.png", want: KindScreenshot},
		{name: "login-chromium/shot.JPEG", want: KindScreenshot},
		{name: "login-chromium/video.webm", want: KindVideo},
		{name: "login-chromium-retry1/trace.zip", want: KindTrace},
		{name: "login-chromium/archive.zip", want: KindAttachment},
		{name: "login-chromium/error-context.md", want: KindAttachment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	work := t.TempDir()
	results := filepath.Join(work, "test-results")
	report := filepath.Join(work, "playwright-report")

	writeFile(t, filepath.Join(results, "login-chromium", "test-failed-1.png"), "png")
	writeFile(t, filepath.Join(results, "login-chromium", "video.webm"), "webm")
	writeFile(t, filepath.Join(results, "login-chromium-retry1", "trace.zip"), "zip")
	writeFile(t, filepath.Join(report, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(report, "data", "abc.png"), "png")

	store, err := storage.NewLocalStore(filepath.Join(work, "store"))
	require.NoError(t, err)

	log := logger.NewTestLogger()
	p := NewPublisher(store, log)
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	runID := uuid.MustParse("3f2c1a4e-8f8e-4b7a-9d5e-0c1b2a3d4e5f")
	manifest, err := p.Publish(ctx, runID,
		Source{Dir: results},
		Source{Dir: report, Report: true},
		Source{Dir: filepath.Join(work, "missing")},
	)
	require.NoError(t, err)

	assert.Equal(t, runID, manifest.RunID)
	assert.Len(t, manifest.Artifacts, 5)
	assert.Equal(t, 1, manifest.Count(KindScreenshot))
	assert.Equal(t, 1, manifest.Count(KindVideo))
	assert.Equal(t, 1, manifest.Count(KindTrace))
	assert.Equal(t, 2, manifest.Count(KindReport))

	for _, key := range []string{
		runID.String() + "/screenshots/login-chromium/test-failed-1.png",
		runID.String() + "/videos/login-chromium/video.webm",
		runID.String() + "/traces/login-chromium-retry1/trace.zip",
		runID.String() + "/report/index.html",
		runID.String() + "/report/data/abc.png",
	} {
		exists, err := store.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists, key)
	}

	rc, err := store.Get(ctx, ManifestKey(runID))
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	var stored Manifest
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, runID, stored.RunID)
	assert.Len(t, stored.Artifacts, 5)
	assert.True(t, stored.PublishedAt.Equal(p.now()))

	assert.Equal(t, []string{"skipping missing source directory"}, log.Messages("warn"))
	assert.Equal(t, []string{"artifacts published"}, log.Messages("info"))

	var uploads int
	for _, e := range log.Entries() {
		assert.Equal(t, runID.String(), e.Fields["run_id"], e.Message)
		if e.Message == "artifact uploaded" {
			uploads++
		}
	}
	assert.Equal(t, 5, uploads)
}

func TestPublisher_GeneratesRunID(t *testing.T) {
	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	manifest, err := NewPublisher(store, nil).Publish(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, manifest.RunID)
	assert.Empty(t, manifest.Artifacts)
}

func TestPublisher_CancelledContext(t *testing.T) {
	work := t.TempDir()
	writeFile(t, filepath.Join(work, "results", "a.png"), "png")

	store, err := storage.NewLocalStore(filepath.Join(work, "store"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewPublisher(store, nil).Publish(ctx, uuid.New(), Source{Dir: filepath.Join(work, "results")})
	assert.ErrorIs(t, err, context.Canceled)
}

type failingStore struct {
	storage.ArtifactStore
}

var errUnavailable = errors.New("store unavailable")

func (failingStore) Put(context.Context, string, io.Reader, string) error {
	return errUnavailable
}

func TestPublisher_UploadFailure(t *testing.T) {
	work := t.TempDir()
	writeFile(t, filepath.Join(work, "results", "trace.zip"), "zip")

	_, err := NewPublisher(failingStore{}, nil).Publish(context.Background(), uuid.New(),
		Source{Dir: filepath.Join(work, "results")})
	assert.ErrorIs(t, err, errUnavailable)
}

func TestPublisher_SourceIsFile(t *testing.T) {
	work := t.TempDir()
	file := filepath.Join(work, "results.txt")
	writeFile(t, file, "x")

	store, err := storage.NewLocalStore(filepath.Join(work, "store"))
	require.NoError(t, err)

	_, err = NewPublisher(store, nil).Publish(context.Background(), uuid.New(), Source{Dir: file})
	assert.Error(t, err)
}

func TestPublisher_Remove(t *testing.T) {
	ctx := context.Background()
	work := t.TempDir()
	results := filepath.Join(work, "test-results")
	writeFile(t, filepath.Join(results, "login-chromium", "test-failed-1.png"), "png")
	writeFile(t, filepath.Join(results, "login-chromium", "video.webm"), "webm")

	store, err := storage.NewLocalStore(filepath.Join(work, "store"))
	require.NoError(t, err)

	log := logger.NewTestLogger()
	p := NewPublisher(store, log)
	runID := uuid.New()

	published, err := p.Publish(ctx, runID, Source{Dir: results})
	require.NoError(t, err)
	require.Len(t, published.Artifacts, 2)

	read, err := ReadManifest(ctx, store, runID)
	require.NoError(t, err)
	assert.Equal(t, published.Artifacts, read.Artifacts)

	// One artifact vanished out of band; Remove still clears the rest.
	require.NoError(t, store.Delete(ctx, published.Artifacts[0].Key))

	removed, err := p.Remove(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, removed.Artifacts, 2)
	assert.Equal(t, []string{"artifact already removed"}, log.Messages("warn"))

	for _, a := range published.Artifacts {
		exists, err := store.Exists(ctx, a.Key)
		require.NoError(t, err)
		assert.False(t, exists, a.Key)
	}
	exists, err := store.Exists(ctx, ManifestKey(runID))
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = p.Remove(ctx, runID)
	assert.ErrorIs(t, err, storage.ErrArtifactNotFound)
}

func TestReadManifest_Corrupt(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	runID := uuid.New()
	require.NoError(t, store.Put(ctx, ManifestKey(runID), strings.NewReader("{not json"), "application/json"))

	_, err = ReadManifest(ctx, store, runID)
	assert.ErrorContains(t, err, "failed to decode manifest")
}
