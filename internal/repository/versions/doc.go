// Package versions implements persistence for the engine versions cache.
//
// The FileRepository stores discovered release versions as JSON on disk so
// later runs can skip GitHub discovery unless asked to refresh.
package versions
