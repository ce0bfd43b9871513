package builder

import (
	"context"
	"sync"

	"github.com/oshokin/engine-manifest/internal/domain/artifact"
	manifestrepo "github.com/oshokin/engine-manifest/internal/repository/manifest"
)

// manifestStore is the concurrency-safe view of the manifest shared by all
// workers. Every insert is flushed to disk before the next one is accepted,
// so an interrupted run loses nothing that was recorded.
type manifestStore struct {
	// mu serializes manifest access and flushes.
	mu sync.Mutex
	// manifest is the authoritative in-memory state.
	manifest artifact.Manifest
	// repo persists the manifest between runs.
	repo manifestrepo.Repository
}

// newManifestStore wraps an in-memory manifest and its persistence.
func newManifestStore(m artifact.Manifest, repo manifestrepo.Repository) *manifestStore {
	return &manifestStore{
		manifest: m,
		repo:     repo,
	}
}

// Has reports whether the key is already recorded.
func (s *manifestStore) Has(key artifact.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.manifest.Has(key)
}

// Apply records the details for a key unless one is already present, and
// persists the manifest when it changed.
func (s *manifestStore) Apply(ctx context.Context, key artifact.Key, details artifact.Details) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.manifest.Insert(key, details) {
		return nil
	}

	return s.repo.Save(ctx, s.manifest)
}

// Flush persists the current manifest unconditionally.
func (s *manifestStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Save(ctx, s.manifest)
}

// Size returns the number of recorded entries.
func (s *manifestStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.manifest)
}

// Snapshot returns an independent copy of the manifest.
func (s *manifestStore) Snapshot() artifact.Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.manifest.Clone()
}
