package builder

import (
	"context"
	"sync"
)

// memoEntry records the outcome of a single fetch. done is closed once
// hash and err are final.
type memoEntry struct {
	done chan struct{}
	hash string
	err  error
}

// hashMemoizer guarantees at most one download per URL for the lifetime of
// a run. Concurrent callers for the same URL block until the first fetch
// finishes and then share its outcome, failures included.
type hashMemoizer struct {
	// source performs the actual download and hashing.
	source hashSource
	// mu protects entries.
	mu sync.Mutex
	// entries maps a URL to its fetch outcome, finished or in flight.
	entries map[string]*memoEntry
}

// newHashMemoizer creates a memoizer backed by the given source.
func newHashMemoizer(source hashSource) *hashMemoizer {
	return &hashMemoizer{
		source:  source,
		entries: make(map[string]*memoEntry),
	}
}

// Hash returns the content hash for the URL, fetching it on first use.
// A caller whose context ends while another fetch for the same URL is in
// flight gets its context error; the fetch itself keeps running.
func (m *hashMemoizer) Hash(ctx context.Context, fileURL string) (string, error) {
	m.mu.Lock()

	if entry, found := m.entries[fileURL]; found {
		m.mu.Unlock()

		select {
		case <-entry.done:
			return entry.hash, entry.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	entry := &memoEntry{done: make(chan struct{})}
	m.entries[fileURL] = entry
	m.mu.Unlock()

	entry.hash, entry.err = m.source.FetchHash(ctx, fileURL)
	close(entry.done)

	return entry.hash, entry.err
}
