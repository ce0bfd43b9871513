package artifact

import (
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// versionPattern matches an embedded MAJOR.MINOR.PATCH with an optional
// prerelease suffix, e.g. "8.1.0" or "2.0.0-rc1".
var versionPattern = regexp.MustCompile(`[0-9]+\.[0-9]+\.[0-9]+(?:-[a-z0-9]+)?`)

// legacyPrereleaseReplacer rewrites historical Elasticsearch tag forms
// like "1.4.0.Beta1" and "0.90.0.RC1" into standard prerelease suffixes
// before matching.
var legacyPrereleaseReplacer = strings.NewReplacer(".Beta", "-beta", ".RC", "-rc")

// ExtractVersion pulls the first embedded semantic version out of a
// free-form tag or release name. It reports false when the string contains
// none; a tag without a version is not an error.
func ExtractVersion(raw string) (*goversion.Version, bool) {
	match := versionPattern.FindString(legacyPrereleaseReplacer.Replace(raw))
	if match == "" {
		return nil, false
	}

	v, err := goversion.NewVersion(match)
	if err != nil {
		return nil, false
	}

	return v, true
}
