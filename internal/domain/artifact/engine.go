package artifact

import (
	"errors"
	"fmt"
)

// Engine identifies a search engine distribution tracked by the manifest.
type Engine string

// The closed set of engines the builder knows how to fetch.
const (
	EngineElasticsearch Engine = "elasticsearch"
	EngineOpenSearch    Engine = "opensearch"
	EngineQuickwit      Engine = "quickwit"
)

// Architecture identifies a CPU architecture an artifact is built for.
type Architecture string

// Supported CPU architectures.
const (
	ArchX8664   Architecture = "x86_64"
	ArchAarch64 Architecture = "aarch64"
)

// OperatingSystem identifies a target operating system.
type OperatingSystem string

// Supported operating systems.
const (
	OSLinux  OperatingSystem = "linux"
	OSDarwin OperatingSystem = "darwin"
)

var (
	// errUnknownEngine is returned when a string does not name a cataloged engine.
	errUnknownEngine = errors.New("unknown engine")
	// errUnknownArchitecture is returned when a string does not name a supported architecture.
	errUnknownArchitecture = errors.New("unknown architecture")
	// errUnknownOperatingSystem is returned when a string does not name a supported operating system.
	errUnknownOperatingSystem = errors.New("unknown operating system")
)

// Engines returns the engine catalog in canonical order.
func Engines() []Engine {
	return []Engine{EngineElasticsearch, EngineOpenSearch, EngineQuickwit}
}

// Architectures returns the supported architectures in canonical order.
func Architectures() []Architecture {
	return []Architecture{ArchX8664, ArchAarch64}
}

// OperatingSystems returns the supported operating systems in canonical order.
func OperatingSystems() []OperatingSystem {
	return []OperatingSystem{OSLinux, OSDarwin}
}

// ParseEngine converts a string into a cataloged Engine.
func ParseEngine(s string) (Engine, error) {
	switch engine := Engine(s); engine {
	case EngineElasticsearch, EngineOpenSearch, EngineQuickwit:
		return engine, nil
	default:
		return "", fmt.Errorf("%q: %w", s, errUnknownEngine)
	}
}

// ParseArchitecture converts a string into a supported Architecture.
func ParseArchitecture(s string) (Architecture, error) {
	switch arch := Architecture(s); arch {
	case ArchX8664, ArchAarch64:
		return arch, nil
	default:
		return "", fmt.Errorf("%q: %w", s, errUnknownArchitecture)
	}
}

// ParseOperatingSystem converts a string into a supported OperatingSystem.
func ParseOperatingSystem(s string) (OperatingSystem, error) {
	switch osName := OperatingSystem(s); osName {
	case OSLinux, OSDarwin:
		return osName, nil
	default:
		return "", fmt.Errorf("%q: %w", s, errUnknownOperatingSystem)
	}
}

// archFormats is the spelling each engine uses for an architecture in its
// artifact file names.
var archFormats = map[Engine]map[Architecture]string{
	EngineElasticsearch: {ArchX8664: "x86_64", ArchAarch64: "aarch64"},
	EngineOpenSearch:    {ArchX8664: "x64", ArchAarch64: "arm64"},
	EngineQuickwit:      {ArchX8664: "x86_64", ArchAarch64: "aarch64"},
}

// osFormats is the spelling each engine uses for an operating system in its
// artifact file names. Quickwit names artifacts after target triples.
var osFormats = map[Engine]map[OperatingSystem]string{
	EngineElasticsearch: {OSLinux: "linux", OSDarwin: "darwin"},
	EngineOpenSearch:    {OSLinux: "linux", OSDarwin: "darwin"},
	EngineQuickwit:      {OSLinux: "unknown-linux-gnu", OSDarwin: "apple-darwin"},
}

// FormatArch returns the engine-specific spelling of the architecture.
func (e Engine) FormatArch(arch Architecture) string {
	return archFormats[e][arch]
}

// FormatOS returns the engine-specific spelling of the operating system.
func (e Engine) FormatOS(osName OperatingSystem) string {
	return osFormats[e][osName]
}
