package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/engine-manifest/internal/domain/artifact"
)

func testKey(t *testing.T, versionString string) artifact.Key {
	t.Helper()

	v, ok := artifact.ExtractVersion(versionString)
	require.True(t, ok)

	return artifact.NewKey(artifact.EngineElasticsearch, v, artifact.ArchX8664, artifact.OSLinux)
}

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	m, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, m)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal manifest.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "manifest.json")
	repo := NewFileRepository(file)

	want := artifact.NewManifest()
	want.Insert(testKey(t, "8.1.0"), artifact.Details{URL: "https://example.com/es.tar.gz", SHA256: "hash"})

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestFileRepository_Save_AtomicReplace verifies the temporary file never
// survives a completed Save and the target stays parseable after every write.
func TestFileRepository_Save_AtomicReplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "manifest.json")
	repo := NewFileRepository(file)

	m := artifact.NewManifest()

	for _, versionString := range []string{"8.0.0", "8.1.0", "8.2.0"} {
		m.Insert(testKey(t, versionString), artifact.Details{URL: "u-" + versionString, SHA256: "h"})
		require.NoError(t, repo.Save(context.Background(), m))

		// No leftover temporary file.
		_, err := os.Stat(file + ".tmp")
		require.ErrorIs(t, err, os.ErrNotExist)

		// The file parses and holds exactly the entries applied so far.
		loaded, err := repo.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, m, loaded)
	}
}

// TestFileRepository_Save_PrettyPrinted verifies the manifest is written indented.
func TestFileRepository_Save_PrettyPrinted(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "manifest.json")
	repo := NewFileRepository(file)

	m := artifact.NewManifest()
	m.Insert(testKey(t, "8.1.0"), artifact.Details{URL: "u", SHA256: "h"})

	require.NoError(t, repo.Save(context.Background(), m))

	contents, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(contents), "\n  \"elasticsearch\"")
	require.True(t, json.Valid(contents))
}

// TestFileRepository_Load_Corrupt ensures malformed content is an error, not an empty manifest.
func TestFileRepository_Load_Corrupt(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"elasticsearch":`), 0o600))

	_, err := NewFileRepository(file).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}
