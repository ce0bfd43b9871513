package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks default normalization and range validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Zero values normalize to defaults.
	cfg := new(Config)

	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultManifestFilename, cfg.ManifestFile)
	require.Equal(t, DefaultVersionsFilename, cfg.VersionsFile)
	require.Equal(t, DefaultPackagesFilename, cfg.PackagesFile)
	require.EqualValues(t, DefaultConcurrency, cfg.Concurrency)
	require.Equal(t, DefaultGithubAPIURL, cfg.GithubAPIURL)
	require.Equal(t, DefaultGithubTimeout, cfg.GithubTimeout)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)

	// Concurrency outside [1, MaxConcurrency].
	cfg = &Config{Concurrency: MaxConcurrency + 1}
	require.Error(t, Validate(cfg))

	cfg = &Config{Concurrency: -1}
	require.Error(t, Validate(cfg))

	// Broken API URL.
	cfg = &Config{GithubAPIURL: "not a url"}
	require.Error(t, Validate(cfg))

	// Negative pacing.
	cfg = &Config{RequestsPerSecond: -1}
	require.Error(t, Validate(cfg))

	// Nil configuration.
	require.Error(t, Validate(nil))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ManifestFile:      filepath.Join(dir, "manifest.json"),
		Concurrency:       2,
		GithubAPIURL:      "https://github.example.com/api/v3",
		GithubTimeout:     10 * time.Second,
		RequestsPerSecond: 3,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ManifestFile, loaded.ManifestFile)
	require.Equal(t, cfg.Concurrency, loaded.Concurrency)
	require.Equal(t, cfg.GithubAPIURL, loaded.GithubAPIURL)
	require.Equal(t, cfg.GithubTimeout, loaded.GithubTimeout)
	require.InEpsilon(t, cfg.RequestsPerSecond, loaded.RequestsPerSecond, 1e-9)
}

// TestLoad_MissingDefaultPath ensures defaults apply when the default config file is absent.
func TestLoad_MissingDefaultPath(t *testing.T) {
	dir := t.TempDir()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestLoad_MissingExplicitPath ensures an explicitly provided missing file is an error.
func TestLoad_MissingExplicitPath(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
