package artifact

import (
	"fmt"
	"net/url"

	goversion "github.com/hashicorp/go-version"
)

// Download URL templates per engine family.
const (
	elasticDownloadTemplate  = "https://download.elastic.co/elasticsearch/elasticsearch/elasticsearch-%s.tar.gz"
	elasticMavenTemplate     = "https://download.elastic.co/elasticsearch/release/org/elasticsearch/distribution/tar/elasticsearch/%s/elasticsearch-%s.tar.gz"
	elasticArtifactsTemplate = "https://artifacts.elastic.co/downloads/elasticsearch/elasticsearch-%s.tar.gz"
	elasticPlatformTemplate  = "https://artifacts.elastic.co/downloads/elasticsearch/elasticsearch-%s-%s-%s.tar.gz"
	openSearchTemplate       = "https://artifacts.opensearch.org/releases/core/opensearch/%s/opensearch-min-%s-linux-%s.tar.gz"
	quickwitTemplate         = "https://github.com/quickwit-oss/quickwit/releases/download/v%s/quickwit-v%s-%s-%s.tar.gz"
)

// DownloadURL derives the canonical artifact URL for the combination.
// Derivation is pure and deterministic; a result that does not parse as a
// URL indicates a malformed version string and is returned as an error.
func DownloadURL(engine Engine, v *goversion.Version, arch Architecture, osName OperatingSystem) (string, error) {
	var raw string

	switch engine {
	case EngineElasticsearch:
		raw = elasticsearchURL(v, arch, osName)
	case EngineOpenSearch:
		// OpenSearch publishes the min distribution under a linux path for
		// every platform; darwin combinations reuse the linux tarball.
		raw = fmt.Sprintf(openSearchTemplate, v, v, engine.FormatArch(arch))
	case EngineQuickwit:
		raw = fmt.Sprintf(quickwitTemplate, v, v, engine.FormatArch(arch), engine.FormatOS(osName))
	default:
		return "", fmt.Errorf("%q: %w", engine, errUnknownEngine)
	}

	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", fmt.Errorf("derived URL for %s %s: %w", engine, v, err)
	}

	return raw, nil
}

// elasticsearchURL picks the elastic.co URL scheme by major version:
// hosting moved twice over the project's history, 7.x introduced platform
// suffixes for x86_64 only, and 8.x added the architecture.
func elasticsearchURL(v *goversion.Version, arch Architecture, osName OperatingSystem) string {
	osPart := EngineElasticsearch.FormatOS(osName)

	switch major := v.Segments()[0]; {
	case major <= 1:
		return fmt.Sprintf(elasticDownloadTemplate, v)
	case major <= 4:
		return fmt.Sprintf(elasticMavenTemplate, v, v)
	case major <= 6:
		return fmt.Sprintf(elasticArtifactsTemplate, v)
	case major == 7:
		return fmt.Sprintf(elasticPlatformTemplate, v, osPart, "x86_64")
	default:
		return fmt.Sprintf(elasticPlatformTemplate, v, osPart, EngineElasticsearch.FormatArch(arch))
	}
}
