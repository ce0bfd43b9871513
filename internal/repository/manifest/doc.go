// Package manifest implements persistence for the artifact Manifest.
//
// The FileRepository stores and loads the manifest as JSON on disk and
// exposes a Repository interface that the builder service depends on.
// Writes replace the file atomically so an interrupted run never leaves a
// half-written manifest behind.
package manifest
