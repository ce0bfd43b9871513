package builder

import (
	"context"
	"errors"
	"fmt"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/oshokin/engine-manifest/internal/domain/artifact"
	"github.com/oshokin/engine-manifest/internal/logger"
)

// buildAll derives and hashes missing artifacts for every engine. Engines
// run concurrently, each bounding its own in-flight downloads.
func (r *runner) buildAll(ctx context.Context, engineVersions artifact.EngineVersions) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, engine := range artifact.Engines() {
		engine := engine

		versions := engineVersions[engine]
		if len(versions) == 0 {
			logger.WarnKV(ctx, "No versions known for engine", "engine", engine)
			continue
		}

		group.Go(func() error {
			return r.buildEngine(groupCtx, engine, versions)
		})
	}

	return group.Wait()
}

// buildEngine walks an engine's versions in ascending order and schedules a
// worker for every combination the manifest does not have yet. Cancellation
// is not an error: whatever finished before the interrupt stays recorded.
func (r *runner) buildEngine(ctx context.Context, engine artifact.Engine, versions []*goversion.Version) error {
	group, groupCtx := errgroup.WithContext(ctx)
	slots := semaphore.NewWeighted(r.cfg.Concurrency)

	scheduleErr := r.scheduleArtifacts(groupCtx, group, slots, engine, versions)
	waitErr := group.Wait()

	switch {
	case waitErr != nil && !errors.Is(waitErr, context.Canceled):
		return waitErr
	case scheduleErr != nil && !errors.Is(scheduleErr, context.Canceled):
		return scheduleErr
	default:
		return nil
	}
}

// scheduleArtifacts enumerates version by version and starts one worker per
// missing combination. Acquiring a semaphore slot both bounds concurrency
// and observes cancellation, so an interrupt stops new work right here.
func (r *runner) scheduleArtifacts(
	ctx context.Context,
	group *errgroup.Group,
	slots *semaphore.Weighted,
	engine artifact.Engine,
	versions []*goversion.Version,
) error {
	for _, engineVersion := range versions {
		engineVersion := engineVersion

		for _, architecture := range artifact.Architectures() {
			for _, operatingSystem := range artifact.OperatingSystems() {
				key := artifact.NewKey(engine, engineVersion, architecture, operatingSystem)
				if r.store.Has(key) {
					continue
				}

				if err := slots.Acquire(ctx, 1); err != nil {
					return err
				}

				group.Go(func() error {
					defer slots.Release(1)

					return r.buildArtifact(ctx, key, engineVersion)
				})
			}
		}
	}

	return nil
}

// buildArtifact resolves the download URL, obtains the content hash through
// the memoizer and records the result. A failed download is logged and
// skipped; the entry stays absent and is retried on the next run.
func (r *runner) buildArtifact(ctx context.Context, key artifact.Key, engineVersion *goversion.Version) error {
	fileURL, err := artifact.DownloadURL(key.Engine, engineVersion, key.Arch, key.OS)
	if err != nil {
		return fmt.Errorf("derive url for %s %s: %w", key.Engine, key.Version, err)
	}

	hash, err := r.memo.Hash(ctx, fileURL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}

		logger.WarnKV(ctx, "Skipping artifact, download failed",
			"engine", key.Engine, "version", key.Version,
			"arch", key.Arch, "os", key.OS, "url", fileURL, "error", err)

		return nil
	}

	if err = r.store.Apply(ctx, key, artifact.Details{URL: fileURL, SHA256: hash}); err != nil {
		return fmt.Errorf("persist entry for %s %s: %w", key.Engine, key.Version, err)
	}

	logger.InfoKV(ctx, "Recorded artifact",
		"engine", key.Engine, "version", key.Version,
		"arch", key.Arch, "os", key.OS, "sha256", hash)

	return nil
}
