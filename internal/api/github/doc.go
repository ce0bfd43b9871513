// Package github implements a small GitHub REST API client used to discover
// engine versions. It lists repository tags and releases, transparently
// following Link-header pagination, and authenticates with a bearer token
// from the GITHUB_TOKEN environment variable when one is set.
package github
