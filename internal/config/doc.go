// Package config defines run settings for the manifest builder and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds output file paths, download parallelism and pacing,
// and the GitHub API endpoint used for version discovery.
package config
