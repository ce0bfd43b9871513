package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/engine-manifest/internal/domain/artifact"
	"github.com/oshokin/engine-manifest/internal/logger"
	versionsrepo "github.com/oshokin/engine-manifest/internal/repository/versions"
)

// versionSource names the GitHub repository and listing strategy for an engine.
type versionSource struct {
	owner string
	repo  string
	// releases lists release titles instead of tag names. OpenSearch and
	// Quickwit publish clean version strings only in release titles.
	releases bool
}

var versionSources = map[artifact.Engine]versionSource{
	artifact.EngineElasticsearch: {owner: "elastic", repo: "elasticsearch"},
	artifact.EngineOpenSearch:    {owner: "opensearch-project", repo: "OpenSearch", releases: true},
	artifact.EngineQuickwit:      {owner: "quickwit-oss", repo: "quickwit", releases: true},
}

// resolveVersions returns the engine version lists to build from. The cached
// list is used when present; discovery runs on the first ever run or when
// the caller forces an update, and its result replaces the cache.
func (r *runner) resolveVersions(ctx context.Context) (artifact.EngineVersions, error) {
	if !r.opts.UpdateVersions {
		cached, err := r.versionsRepo.Load(ctx)
		if err == nil {
			return cached, nil
		}

		if !errors.Is(err, versionsrepo.ErrNotFound) {
			return nil, fmt.Errorf("load version list: %w", err)
		}

		logger.Info(ctx, "No cached version list, discovering from GitHub")
	}

	discovered, err := r.discoverVersions(ctx)
	if err != nil {
		return nil, err
	}

	if err = r.versionsRepo.Save(ctx, discovered); err != nil {
		return nil, fmt.Errorf("save version list: %w", err)
	}

	return discovered, nil
}

// discoverVersions queries GitHub for every engine concurrently.
func (r *runner) discoverVersions(ctx context.Context) (artifact.EngineVersions, error) {
	var (
		mu         sync.Mutex
		discovered = make(artifact.EngineVersions, len(artifact.Engines()))
	)

	group, groupCtx := errgroup.WithContext(ctx)

	for _, engine := range artifact.Engines() {
		engine := engine

		group.Go(func() error {
			versions, err := r.discoverEngineVersions(groupCtx, engine)
			if err != nil {
				return fmt.Errorf("discover %s versions: %w", engine, err)
			}

			mu.Lock()
			discovered[engine] = versions
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return discovered, nil
}

// discoverEngineVersions lists the engine's tags or releases and extracts a
// deduplicated, ascending list of versions from the raw names. Names without
// an embedded version are skipped.
func (r *runner) discoverEngineVersions(ctx context.Context, engine artifact.Engine) ([]*goversion.Version, error) {
	source := versionSources[engine]

	var (
		names []string
		err   error
	)

	if source.releases {
		names, err = r.github.ListReleaseNames(ctx, source.owner, source.repo)
	} else {
		names, err = r.github.ListTagNames(ctx, source.owner, source.repo)
	}

	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	versions := make([]*goversion.Version, 0, len(names))

	for _, name := range names {
		version, ok := artifact.ExtractVersion(name)
		if !ok {
			continue
		}

		canonical := version.String()
		if _, found := seen[canonical]; found {
			continue
		}

		seen[canonical] = struct{}{}
		versions = append(versions, version)
	}

	sort.Sort(goversion.Collection(versions))

	logger.InfoKV(ctx, "Discovered engine versions",
		"engine", engine, "versions", len(versions), "names", len(names))

	return versions, nil
}
