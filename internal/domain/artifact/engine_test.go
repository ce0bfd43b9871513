package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseEngine verifies catalog membership checks and rejection of unknown names.
func TestParseEngine(t *testing.T) {
	t.Parallel()

	for _, engine := range Engines() {
		parsed, err := ParseEngine(string(engine))
		require.NoError(t, err)
		require.Equal(t, engine, parsed)
	}

	_, err := ParseEngine("mongodb")
	require.Error(t, err)

	_, err = ParseEngine("Elasticsearch")
	require.Error(t, err)
}

// TestParsePlatform verifies architecture and operating system parsing.
func TestParsePlatform(t *testing.T) {
	t.Parallel()

	arch, err := ParseArchitecture("aarch64")
	require.NoError(t, err)
	require.Equal(t, ArchAarch64, arch)

	_, err = ParseArchitecture("riscv64")
	require.Error(t, err)

	osName, err := ParseOperatingSystem("darwin")
	require.NoError(t, err)
	require.Equal(t, OSDarwin, osName)

	_, err = ParseOperatingSystem("windows")
	require.Error(t, err)
}

// TestFormatTables spot-checks the per-engine naming tables.
func TestFormatTables(t *testing.T) {
	t.Parallel()

	require.Equal(t, "x64", EngineOpenSearch.FormatArch(ArchX8664))
	require.Equal(t, "arm64", EngineOpenSearch.FormatArch(ArchAarch64))
	require.Equal(t, "x86_64", EngineElasticsearch.FormatArch(ArchX8664))
	require.Equal(t, "aarch64", EngineQuickwit.FormatArch(ArchAarch64))

	require.Equal(t, "unknown-linux-gnu", EngineQuickwit.FormatOS(OSLinux))
	require.Equal(t, "apple-darwin", EngineQuickwit.FormatOS(OSDarwin))
	require.Equal(t, "linux", EngineElasticsearch.FormatOS(OSLinux))
	require.Equal(t, "darwin", EngineOpenSearch.FormatOS(OSDarwin))
}

// TestCatalogOrder pins the canonical enumeration order the serialized files rely on.
func TestCatalogOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Engine{EngineElasticsearch, EngineOpenSearch, EngineQuickwit}, Engines())
	require.Equal(t, []Architecture{ArchX8664, ArchAarch64}, Architectures())
	require.Equal(t, []OperatingSystem{OSLinux, OSDarwin}, OperatingSystems())
}
