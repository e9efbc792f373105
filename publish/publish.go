package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/runnerconf/logger"
	"github.com/hairizuan-noorazman/runnerconf/storage"
)

// Kind classifies an artifact left behind by the runner.
type Kind string

const (
	KindScreenshot Kind = "screenshot"
	KindVideo      Kind = "video"
	KindTrace      Kind = "trace"
	KindReport     Kind = "report"
	KindAttachment Kind = "attachment"
)

// dir is the key segment artifacts of this kind are grouped under.
func (k Kind) dir() string {
	switch k {
	case KindScreenshot:
		return "screenshots"
	case KindVideo:
		return "videos"
	case KindTrace:
		return "traces"
	case KindReport:
		return "report"
	default:
		return "attachments"
	}
}

// Classify guesses the kind of a result file from its name.
func Classify(name string) Kind {
	base := strings.ToLower(filepath.Base(name))
	switch filepath.Ext(base) {
	case ".png", ".jpg", ".jpeg":
		return KindScreenshot
	case ".webm", ".mp4":
		return KindVideo
	case ".zip":
		if strings.HasPrefix(base, "trace") {
			return KindTrace
		}
	}
	return KindAttachment
}

// Source is a directory to publish. Report directories are uploaded as a
// whole, keeping their layout so the HTML report still works.
type Source struct {
	Dir    string
	Report bool
}

// Artifact is one uploaded file.
type Artifact struct {
	Kind        Kind   `json:"kind"`
	Source      string `json:"source"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

// Manifest records everything uploaded for one run.
type Manifest struct {
	RunID       uuid.UUID  `json:"run_id"`
	PublishedAt time.Time  `json:"published_at"`
	Artifacts   []Artifact `json:"artifacts"`
}

// Count returns how many artifacts of kind were uploaded.
func (m *Manifest) Count(kind Kind) int {
	n := 0
	for _, a := range m.Artifacts {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// ManifestKey is where the manifest of a run is stored.
func ManifestKey(runID uuid.UUID) string {
	return path.Join(runID.String(), "manifest.json")
}

// Publisher uploads runner output to an ArtifactStore.
type Publisher struct {
	store storage.ArtifactStore
	log   logger.Logger
	now   func() time.Time
}

// NewPublisher creates a publisher writing to store.
func NewPublisher(store storage.ArtifactStore, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{store: store, log: log, now: time.Now}
}

// Publish uploads every file under sources and then the run manifest. Missing
// source directories are skipped; the runner only creates them when it has
// something to write.
func (p *Publisher) Publish(ctx context.Context, runID uuid.UUID, sources ...Source) (*Manifest, error) {
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	log := p.log.WithField("run_id", runID.String())

	manifest := &Manifest{RunID: runID, PublishedAt: p.now().UTC()}

	for _, src := range sources {
		info, err := os.Stat(src.Dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warn(ctx, "skipping missing source directory", logger.Fields{"dir": src.Dir})
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", src.Dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("source %s is not a directory", src.Dir)
		}

		artifacts, err := p.publishDir(ctx, log, runID, src)
		if err != nil {
			return nil, err
		}
		manifest.Artifacts = append(manifest.Artifacts, artifacts...)
	}

	if err := p.writeManifest(ctx, manifest); err != nil {
		return nil, err
	}

	log.Info(ctx, "artifacts published", logger.Fields{
		"artifacts":   len(manifest.Artifacts),
		"screenshots": manifest.Count(KindScreenshot),
		"videos":      manifest.Count(KindVideo),
		"traces":      manifest.Count(KindTrace),
	})

	return manifest, nil
}

func (p *Publisher) publishDir(ctx context.Context, log logger.Logger, runID uuid.UUID, src Source) ([]Artifact, error) {
	var artifacts []Artifact

	err := filepath.WalkDir(src.Dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src.Dir, file)
		if err != nil {
			return err
		}

		kind := KindReport
		if !src.Report {
			kind = Classify(rel)
		}

		artifact, err := p.upload(ctx, log, runID, kind, file, rel)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, artifact)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", src.Dir, err)
	}

	return artifacts, nil
}

func (p *Publisher) upload(ctx context.Context, log logger.Logger, runID uuid.UUID, kind Kind, file, rel string) (Artifact, error) {
	f, err := os.Open(file)
	if err != nil {
		return Artifact{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Artifact{}, err
	}

	artifact := Artifact{
		Kind:        kind,
		Source:      file,
		Key:         path.Join(runID.String(), kind.dir(), filepath.ToSlash(rel)),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(file)),
	}

	if err := p.store.Put(ctx, artifact.Key, f, artifact.ContentType); err != nil {
		return Artifact{}, fmt.Errorf("failed to upload %s: %w", rel, err)
	}

	log.Debug(ctx, "artifact uploaded", logger.Fields{
		"key":  artifact.Key,
		"kind": string(kind),
		"size": artifact.Size,
	})

	return artifact, nil
}

func (p *Publisher) writeManifest(ctx context.Context, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := p.store.Put(ctx, ManifestKey(m.RunID), bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("failed to upload manifest: %w", err)
	}
	return nil
}

// ReadManifest fetches the manifest of a published run.
func ReadManifest(ctx context.Context, store storage.ArtifactStore, runID uuid.UUID) (*Manifest, error) {
	rc, err := store.Get(ctx, ManifestKey(runID))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest of run %s: %w", runID, err)
	}
	defer rc.Close()

	var m Manifest
	if err := json.NewDecoder(rc).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest of run %s: %w", runID, err)
	}
	return &m, nil
}

// Remove deletes everything a previous Publish stored for runID, manifest
// last. Artifacts already gone are skipped. It returns
// storage.ErrArtifactNotFound when the run has no manifest.
func (p *Publisher) Remove(ctx context.Context, runID uuid.UUID) (*Manifest, error) {
	log := p.log.WithField("run_id", runID.String())

	m, err := ReadManifest(ctx, p.store, runID)
	if err != nil {
		return nil, err
	}

	for _, a := range m.Artifacts {
		if err := p.store.Delete(ctx, a.Key); err != nil {
			if errors.Is(err, storage.ErrArtifactNotFound) {
				log.Warn(ctx, "artifact already removed", logger.Fields{"key": a.Key})
				continue
			}
			return nil, fmt.Errorf("failed to remove %s: %w", a.Key, err)
		}
	}

	if err := p.store.Delete(ctx, ManifestKey(runID)); err != nil {
		return nil, fmt.Errorf("failed to remove manifest: %w", err)
	}

	log.Info(ctx, "published run removed", logger.Fields{"artifacts": len(m.Artifacts)})
	return m, nil
}
