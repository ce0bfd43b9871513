package versions

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

// Repository defines persistence operations for the engine versions cache.
type Repository interface {
	Load(ctx context.Context) (artifact.EngineVersions, error)
	Save(ctx context.Context, versions artifact.EngineVersions) error
}

// FileRepository persists discovered engine versions to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the versions cache file.
	path string
	// mu protects concurrent access to the cache file.
	mu sync.Mutex
}

// ErrNotFound is returned when the versions cache file does not exist yet.
var ErrNotFound = errors.New("versions cache not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the cached versions from disk.
func (r *FileRepository) Load(_ context.Context) (artifact.EngineVersions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read versions file: %w", err)
	}

	var versions artifact.EngineVersions
	if err = json.Unmarshal(contents, &versions); err != nil {
		return nil, fmt.Errorf("decode versions file: %w", err)
	}

	return versions, nil
}

// Save writes the versions cache to disk atomically.
func (r *FileRepository) Save(_ context.Context, versions artifact.EngineVersions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(versions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode versions: %w", err)
	}

	temporaryPath := r.path + ".tmp"
	if err = os.WriteFile(temporaryPath, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write versions file: %w", err)
	}

	if err = os.Rename(temporaryPath, r.path); err != nil {
		return fmt.Errorf("replace versions file: %w", err)
	}

	return nil
}
