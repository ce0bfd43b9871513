package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/oshokin/engine-manifest/internal/api/github"
	"github.com/oshokin/engine-manifest/internal/config"
	"github.com/oshokin/engine-manifest/internal/domain/artifact"
	"github.com/oshokin/engine-manifest/internal/logger"
	manifestrepo "github.com/oshokin/engine-manifest/internal/repository/manifest"
	versionsrepo "github.com/oshokin/engine-manifest/internal/repository/versions"
)

// Options are inputs accepted by the builder entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// UpdateVersions forces version discovery even when a cached list exists.
	UpdateVersions bool
}

// runner holds the collaborators of a single build execution.
type runner struct {
	opts         *Options                // Caller-provided flags.
	cfg          *config.Config          // Settings loaded from YAML.
	github       *github.Client          // Version discovery source.
	versionsRepo versionsrepo.Repository // Cache of discovered versions.
	store        *manifestStore          // Shared manifest state and persistence.
	memo         *hashMemoizer           // One download per distinct URL.
}

// Run executes the manifest build lifecycle and is the public entry point
// for the CLI. An interrupt is not an error: progress made so far is
// flushed and the package list is still written.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "engine-manifest")

	r, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}

	if err = r.run(ctx); err != nil {
		logger.ErrorKV(ctx, "Build failed", "error", err)
		return err
	}

	logger.Info(ctx, "Build completed")

	return nil
}

// newRunner loads configuration and prior state and wires the collaborators.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if level, known := logger.ParseLogLevel(cfg.LogLevel); known {
		logger.SetLevel(level)
	}

	manifestRepo := manifestrepo.NewFileRepository(cfg.ManifestFile)

	m, err := manifestRepo.Load(ctx)

	switch {
	case errors.Is(err, manifestrepo.ErrNotFound):
		logger.Info(ctx, "No manifest yet, starting empty")

		m = artifact.NewManifest()
	case err != nil:
		// A manifest that exists but does not parse must not be overwritten.
		return nil, fmt.Errorf("load manifest: %w", err)
	default:
		logger.InfoKV(ctx, "Loaded manifest", "entries", len(m), "path", cfg.ManifestFile)
	}

	return &runner{
		opts:         opts,
		cfg:          cfg,
		github:       github.NewClient(cfg.GithubAPIURL, &http.Client{Timeout: cfg.GithubTimeout}),
		versionsRepo: versionsrepo.NewFileRepository(cfg.VersionsFile),
		store:        newManifestStore(m, manifestRepo),
		memo:         newHashMemoizer(newFetcher(cfg.RequestsPerSecond)),
	}, nil
}

// run builds missing entries, then always writes the final manifest and
// package list, interrupted or not.
func (r *runner) run(ctx context.Context) error {
	buildErr := r.build(ctx)

	if err := r.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}

	if err := r.writePackages(ctx); err != nil {
		return err
	}

	return buildErr
}

// build resolves the engine version lists and fills in missing manifest
// entries. Cancellation is reported as success so the caller still exits
// cleanly after the final flush.
func (r *runner) build(ctx context.Context) error {
	engineVersions, err := r.resolveVersions(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info(ctx, "Interrupted during version discovery")

			return nil
		}

		return err
	}

	if err = r.buildAll(ctx, engineVersions); err != nil {
		return err
	}

	if ctx.Err() != nil {
		logger.InfoKV(ctx, "Interrupted, progress saved", "entries", r.store.Size())
	}

	return nil
}
