package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/engine-manifest/internal/config"
	"github.com/oshokin/engine-manifest/internal/domain/artifact"
)

// Repository defines persistence operations for the artifact manifest.
type Repository interface {
	Load(ctx context.Context) (artifact.Manifest, error)
	Save(ctx context.Context, m artifact.Manifest) error
}

// FileRepository persists the manifest to a JSON file on disk. Save writes
// the whole document to a temporary file and renames it over the target, so
// the file parses even if the process dies mid-write.
type FileRepository struct {
	// path is the filesystem location of the manifest file.
	path string
	// mu protects concurrent access to the manifest file.
	mu sync.Mutex
}

// ErrNotFound is returned when the manifest file does not exist yet.
var ErrNotFound = errors.New("manifest not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the manifest from disk.
func (r *FileRepository) Load(_ context.Context) (artifact.Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	var m artifact.Manifest
	if err = json.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("decode manifest file: %w", err)
	}

	return m, nil
}

// Save writes the manifest to disk atomically.
func (r *FileRepository) Save(_ context.Context, m artifact.Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	temporaryPath := r.path + ".tmp"
	if err = os.WriteFile(temporaryPath, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest file: %w", err)
	}

	if err = os.Rename(temporaryPath, r.path); err != nil {
		return fmt.Errorf("replace manifest file: %w", err)
	}

	return nil
}
