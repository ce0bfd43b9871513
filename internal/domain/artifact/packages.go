package artifact

import "strings"

// PackageAttrs describes one installable package for the downstream build system.
type PackageAttrs struct {
	// Pname is the package name, which is the engine.
	Pname Engine `json:"pname"`
	// Version is the canonical semantic version string.
	Version string `json:"version"`
	// URL is the canonical download location.
	URL string `json:"url"`
	// SHA256 is the Nix base32 encoding of the artifact's SHA-256 digest.
	SHA256 string `json:"sha256"`
}

// PackageList is a view of the manifest grouped by target system for the
// downstream build system. It is a pure reshape: serialize it with
// encoding/json to produce the package list file.
type PackageList struct {
	manifest Manifest
}

// NewPackageList returns the package-list view over the manifest.
func NewPackageList(m Manifest) PackageList {
	return PackageList{manifest: m}
}

// SystemName renders the target system string, e.g. "x86_64-linux".
func SystemName(arch Architecture, osName OperatingSystem) string {
	return string(arch) + "-" + string(osName)
}

// PackageName renders the attribute name for an engine and version with
// version dots replaced by underscores, e.g. "elasticsearch_8_1_0".
func PackageName(engine Engine, versionString string) string {
	return string(engine) + "_" + strings.ReplaceAll(versionString, ".", "_")
}

// MarshalJSON groups packages by system with deterministic ordering:
// systems by architecture then operating system in catalog order, packages
// by engine catalog order then ascending semantic version. Systems without
// packages are omitted.
func (p PackageList) MarshalJSON() ([]byte, error) {
	root := newJSONObject()

	for _, arch := range Architectures() {
		for _, osName := range OperatingSystems() {
			system := newJSONObject()

			for _, engine := range Engines() {
				versions, err := p.manifest.sortedVersions(engine)
				if err != nil {
					return nil, err
				}

				for _, versionString := range versions {
					key := Key{Engine: engine, Version: versionString, Arch: arch, OS: osName}

					details, ok := p.manifest[key]
					if !ok {
						continue
					}

					system.set(PackageName(engine, versionString), PackageAttrs{
						Pname:   engine,
						Version: versionString,
						URL:     details.URL,
						SHA256:  details.SHA256,
					})
				}
			}

			if !system.empty() {
				root.set(SystemName(arch, osName), system)
			}
		}
	}

	return root.MarshalJSON()
}
