package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExtractVersion covers tag forms seen across the engines' repositories.
func TestExtractVersion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "v1.2.3", want: "1.2.3", ok: true},
		{raw: "1.2.3", want: "1.2.3", ok: true},
		{raw: "OpenSearch 2.11.1", want: "2.11.1", ok: true},
		{raw: "Quickwit v0.8.1", want: "0.8.1", ok: true},
		{raw: "v2.0.0-rc1", want: "2.0.0-rc1", ok: true},
		{raw: "v1.4.0.Beta1", want: "1.4.0-beta1", ok: true},
		{raw: "v0.90.0.RC1", want: "0.90.0-rc1", ok: true},
		{raw: "8.1.0-SNAPSHOT", want: "8.1.0", ok: true},
		{raw: "some-beta-prerelease-1", ok: false},
		{raw: "lucene_solr_3_1", ok: false},
		{raw: "", ok: false},
	}

	for _, tc := range cases {
		got, ok := ExtractVersion(tc.raw)
		require.Equal(t, tc.ok, ok, "raw %q", tc.raw)

		if !tc.ok {
			require.Nil(t, got, "raw %q", tc.raw)
			continue
		}

		require.Equal(t, tc.want, got.String(), "raw %q", tc.raw)
	}
}

// TestExtractVersion_CanonicalRoundtrip ensures extracted versions survive
// canonical formatting unchanged.
func TestExtractVersion_CanonicalRoundtrip(t *testing.T) {
	t.Parallel()

	v, ok := ExtractVersion("elasticsearch-7.17.0 release")
	require.True(t, ok)

	again, ok := ExtractVersion(v.String())
	require.True(t, ok)
	require.Equal(t, v.String(), again.String())
}
