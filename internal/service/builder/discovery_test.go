package builder

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/engine-manifest/internal/api/github"
	"github.com/oshokin/engine-manifest/internal/domain/artifact"
	versionsrepo "github.com/oshokin/engine-manifest/internal/repository/versions"
)

// canonicalStrings renders versions for order-sensitive comparison.
func canonicalStrings(versions []*goversion.Version) []string {
	rendered := make([]string, 0, len(versions))
	for _, v := range versions {
		rendered = append(rendered, v.String())
	}

	return rendered
}

// newDiscoveryServer serves a fixed GitHub API dataset with junk names,
// duplicates and untitled releases mixed in.
func newDiscoveryServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/elastic/elasticsearch/tags", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name":"v8.1.0"},
			{"name":"v8.1.0"},
			{"name":"v1.4.0.Beta1"},
			{"name":"lucene_solr_3_1"},
			{"name":"v7.17.0"}
		]`)
	})
	mux.HandleFunc("/repos/opensearch-project/OpenSearch/releases", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name":"OpenSearch 2.11.1","tag_name":"2.11.1"},
			{"name":"","tag_name":"2.11.0"},
			{"name":"OpenSearch 1.3.14","tag_name":"1.3.14"}
		]`)
	})
	mux.HandleFunc("/repos/quickwit-oss/quickwit/releases", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"name":"Quickwit v0.8.2","tag_name":"v0.8.2"},
			{"name":"Quickwit v0.8.1","tag_name":"v0.8.1"}
		]`)
	})

	return httptest.NewServer(mux)
}

// TestResolveVersions_DiscoversCleansAndCaches verifies version extraction
// from raw names, deduplication, ascending order and that the result lands
// in the cache file.
func TestResolveVersions_DiscoversCleansAndCaches(t *testing.T) {
	t.Parallel()

	server := newDiscoveryServer()
	defer server.Close()

	cachePath := filepath.Join(t.TempDir(), "versions.json")

	r := &runner{
		opts:         &Options{UpdateVersions: true},
		github:       github.NewClient(server.URL, server.Client()),
		versionsRepo: versionsrepo.NewFileRepository(cachePath),
	}

	discovered, err := r.resolveVersions(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"1.4.0-beta1", "7.17.0", "8.1.0"},
		canonicalStrings(discovered[artifact.EngineElasticsearch]))
	require.Equal(t, []string{"1.3.14", "2.11.1"},
		canonicalStrings(discovered[artifact.EngineOpenSearch]))
	require.Equal(t, []string{"0.8.1", "0.8.2"},
		canonicalStrings(discovered[artifact.EngineQuickwit]))

	cached, err := versionsrepo.NewFileRepository(cachePath).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, discovered, cached)
}

// TestResolveVersions_PrefersCache verifies that an existing cache is used
// without any discovery request.
func TestResolveVersions_PrefersCache(t *testing.T) {
	t.Parallel()

	server := newDiscoveryServer()

	cachePath := filepath.Join(t.TempDir(), "versions.json")

	first := &runner{
		opts:         &Options{UpdateVersions: true},
		github:       github.NewClient(server.URL, server.Client()),
		versionsRepo: versionsrepo.NewFileRepository(cachePath),
	}

	discovered, err := first.resolveVersions(context.Background())
	require.NoError(t, err)

	// With the server gone, only the cache can answer.
	server.Close()

	second := &runner{
		opts:         &Options{},
		github:       github.NewClient(server.URL, http.DefaultClient),
		versionsRepo: versionsrepo.NewFileRepository(cachePath),
	}

	cached, err := second.resolveVersions(context.Background())
	require.NoError(t, err)
	require.Equal(t, discovered, cached)
}

// TestResolveVersions_CorruptCacheIsFatal verifies that an unreadable cache
// stops the run instead of being silently rebuilt.
func TestResolveVersions_CorruptCacheIsFatal(t *testing.T) {
	t.Parallel()

	cachePath := filepath.Join(t.TempDir(), "versions.json")
	require.NoError(t, os.WriteFile(cachePath, []byte(`{"elasticsearch":["zero.8.1"]}`), 0o600))

	r := &runner{
		opts:         &Options{},
		versionsRepo: versionsrepo.NewFileRepository(cachePath),
	}

	_, err := r.resolveVersions(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "load version list")
}
