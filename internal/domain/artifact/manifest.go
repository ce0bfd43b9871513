package artifact

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"

	goversion "github.com/hashicorp/go-version"
)

// Key identifies one artifact combination in the manifest.
type Key struct {
	// Engine is the search engine distribution.
	Engine Engine
	// Version is the canonical semantic version string.
	Version string
	// Arch is the CPU architecture.
	Arch Architecture
	// OS is the target operating system.
	OS OperatingSystem
}

// NewKey builds a Key from a parsed version.
func NewKey(engine Engine, v *goversion.Version, arch Architecture, osName OperatingSystem) Key {
	return Key{
		Engine:  engine,
		Version: v.String(),
		Arch:    arch,
		OS:      osName,
	}
}

// Details holds what the build system needs to fetch one artifact.
type Details struct {
	// URL is the canonical download location.
	URL string `json:"url"`
	// SHA256 is the Nix base32 encoding of the artifact's SHA-256 digest.
	SHA256 string `json:"sha256"`
}

// Manifest maps every recorded artifact combination to its download details.
type Manifest map[Key]Details

// NewManifest returns an empty manifest.
func NewManifest() Manifest {
	return make(Manifest)
}

// Has reports whether the combination is already recorded.
func (m Manifest) Has(key Key) bool {
	_, ok := m[key]
	return ok
}

// Insert records details for a combination unless it is already present.
// Existing entries are never overwritten. It reports whether the manifest changed.
func (m Manifest) Insert(key Key, details Details) bool {
	if _, ok := m[key]; ok {
		return false
	}

	m[key] = details

	return true
}

// Clone returns a copy so callers can serialize without holding locks.
func (m Manifest) Clone() Manifest {
	return maps.Clone(m)
}

// MarshalJSON renders the nested engine > version > architecture > os
// grouping with deterministic key order: engines and platform variants in
// catalog order, versions ascending by semantic version.
func (m Manifest) MarshalJSON() ([]byte, error) {
	root := newJSONObject()

	for _, engine := range Engines() {
		versions, err := m.sortedVersions(engine)
		if err != nil {
			return nil, err
		}

		if len(versions) == 0 {
			continue
		}

		byVersion := newJSONObject()

		for _, versionString := range versions {
			byArch := newJSONObject()

			for _, arch := range Architectures() {
				byOS := newJSONObject()

				for _, osName := range OperatingSystems() {
					key := Key{Engine: engine, Version: versionString, Arch: arch, OS: osName}
					if details, ok := m[key]; ok {
						byOS.set(string(osName), details)
					}
				}

				if !byOS.empty() {
					byArch.set(string(arch), byOS)
				}
			}

			byVersion.set(versionString, byArch)
		}

		root.set(string(engine), byVersion)
	}

	return root.MarshalJSON()
}

// UnmarshalJSON flattens the nested serialized grouping back into the flat
// map, validating every enum key and version string. Unknown engines,
// platforms or malformed versions mean the file is corrupt.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var nested map[string]map[string]map[string]map[string]Details
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}

	result := NewManifest()

	for engineName, byVersion := range nested {
		engine, err := ParseEngine(engineName)
		if err != nil {
			return err
		}

		for rawVersion, byArch := range byVersion {
			v, err := goversion.NewVersion(rawVersion)
			if err != nil {
				return fmt.Errorf("manifest version %q: %w", rawVersion, err)
			}

			for archName, byOS := range byArch {
				arch, err := ParseArchitecture(archName)
				if err != nil {
					return err
				}

				for osName, details := range byOS {
					osValue, err := ParseOperatingSystem(osName)
					if err != nil {
						return err
					}

					result[NewKey(engine, v, arch, osValue)] = details
				}
			}
		}
	}

	*m = result

	return nil
}

// sortedVersions returns the distinct version strings recorded for the
// engine in ascending semantic order.
func (m Manifest) sortedVersions(engine Engine) ([]string, error) {
	seen := make(map[string]struct{})

	var versions goversion.Collection

	for key := range m {
		if key.Engine != engine {
			continue
		}

		if _, ok := seen[key.Version]; ok {
			continue
		}

		seen[key.Version] = struct{}{}

		v, err := goversion.NewVersion(key.Version)
		if err != nil {
			return nil, fmt.Errorf("manifest version %q: %w", key.Version, err)
		}

		versions = append(versions, v)
	}

	sort.Sort(versions)

	result := make([]string, 0, len(versions))
	for _, v := range versions {
		result = append(result, v.String())
	}

	return result, nil
}
