package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds run parameters for the manifest builder.
type Config struct {
	// ManifestFile is the path to the JSON file storing the artifact manifest.
	ManifestFile string `yaml:"manifest_file"`
	// VersionsFile is the path to the JSON file caching discovered engine versions.
	VersionsFile string `yaml:"versions_file"`
	// PackagesFile is the path to the JSON file with the final package list.
	PackagesFile string `yaml:"packages_file"`
	// Concurrency is the number of artifact downloads allowed in flight at once per engine.
	Concurrency int64 `yaml:"concurrency"`
	// GithubAPIURL is the base URL of the GitHub REST API used for version discovery.
	GithubAPIURL string `yaml:"github_api_url"`
	// GithubTimeout is the duration allowed for a single discovery request.
	GithubTimeout time.Duration `yaml:"github_timeout"`
	// RequestsPerSecond paces outbound artifact downloads. Zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for builder settings.
	DefaultConfigFilename = "engine-manifest-settings.yaml"

	// DefaultManifestFilename is the default filename for the artifact manifest.
	DefaultManifestFilename = "manifest.json"

	// DefaultVersionsFilename is the default filename for the versions cache.
	DefaultVersionsFilename = "versions.json"

	// DefaultPackagesFilename is the default filename for the package list.
	DefaultPackagesFilename = "packages.json"

	// DefaultConcurrency is the default number of in-flight downloads per engine.
	DefaultConcurrency = 4

	// MaxConcurrency caps the per-engine download parallelism.
	MaxConcurrency = 16

	// DefaultGithubAPIURL is the public GitHub REST API endpoint.
	DefaultGithubAPIURL = "https://api.github.com"

	// DefaultGithubTimeout is the default duration for a discovery request.
	DefaultGithubTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the default pacing for artifact downloads.
	DefaultRequestsPerSecond = 8

	// DefaultLogLevel is the log level applied when none is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errConcurrencyOutOfRange is returned when the download parallelism is not in [1, MaxConcurrency].
	errConcurrencyOutOfRange = fmt.Errorf("concurrency must be between 1 and %d", MaxConcurrency)
	// errNegativeRequestRate is returned when the request pacing is negative.
	errNegativeRequestRate = errors.New("requests per second must not be negative")
)

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		ManifestFile:      DefaultManifestFilename,
		VersionsFile:      DefaultVersionsFilename,
		PackagesFile:      DefaultPackagesFilename,
		Concurrency:       DefaultConcurrency,
		GithubAPIURL:      DefaultGithubAPIURL,
		GithubTimeout:     DefaultGithubTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		LogLevel:          DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path is not an error: defaults apply.
// An explicitly provided path must exist.
func Load(path string) (*Config, error) {
	usingDefaultPath := path == ""
	if usingDefaultPath {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if usingDefaultPath && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate normalizes zero values to defaults and rejects invalid settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ManifestFile == "" {
		cfg.ManifestFile = DefaultManifestFilename
	}

	if cfg.VersionsFile == "" {
		cfg.VersionsFile = DefaultVersionsFilename
	}

	if cfg.PackagesFile == "" {
		cfg.PackagesFile = DefaultPackagesFilename
	}

	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	if cfg.Concurrency < 1 || cfg.Concurrency > MaxConcurrency {
		return errConcurrencyOutOfRange
	}

	if cfg.GithubAPIURL == "" {
		cfg.GithubAPIURL = DefaultGithubAPIURL
	}

	if _, err := url.ParseRequestURI(cfg.GithubAPIURL); err != nil {
		return fmt.Errorf("invalid GitHub API URL: %w", err)
	}

	if cfg.GithubTimeout <= 0 {
		cfg.GithubTimeout = DefaultGithubTimeout
	}

	if cfg.RequestsPerSecond < 0 {
		return errNegativeRequestRate
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}
