// Package builder produces the reproducible artifact manifest. A run loads
// or discovers the per-engine version lists, derives a deterministic
// download URL for every (engine, version, architecture, os) combination,
// downloads each distinct URL exactly once to hash its contents, and
// persists results as they arrive. Interrupting a run keeps everything
// recorded so far; the next run resumes with the missing combinations.
package builder
