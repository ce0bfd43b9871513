// Package artifact defines the domain model for engine release artifacts.
//
// It holds the closed engine catalog with per-engine naming tables, download
// URL derivation, semantic version extraction from free-form tags, and the
// manifest mapping every (engine, version, architecture, operating system)
// combination to its download URL and content hash. The manifest is kept as
// one flat map; the nested grouping by engine, version and platform exists
// only in the serialized JSON form.
package artifact
