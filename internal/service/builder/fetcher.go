package builder

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nix-community/go-nix/pkg/nixbase32"
	"golang.org/x/time/rate"
)

// errBadHTTPStatus is returned when an artifact server answers with a non-OK status.
var errBadHTTPStatus = errors.New("unexpected http status")

// hashSource produces the content hash of the file behind a URL.
type hashSource interface {
	FetchHash(ctx context.Context, fileURL string) (string, error)
}

// fetcher downloads artifacts and hashes them in a single streaming pass.
type fetcher struct {
	// httpClient performs the downloads. It carries no global timeout,
	// archives run to hundreds of megabytes; the request context bounds
	// each download instead.
	httpClient *http.Client
	// limiter paces request starts across all workers.
	limiter *rate.Limiter
}

// newFetcher creates a fetcher pacing requests at the given rate.
// A non-positive rate disables pacing.
func newFetcher(requestsPerSecond float64) *fetcher {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &fetcher{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// FetchHash downloads the file and returns the Nix base32 encoding of its
// SHA-256 digest. The body is hashed as it streams; nothing is buffered on
// disk or in memory.
func (f *fetcher) FetchHash(ctx context.Context, fileURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return "", err
	}

	response, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s, %s: %w", fileURL, response.Status, errBadHTTPStatus)
	}

	hasher := sha256.New()
	if _, err = io.Copy(hasher, response.Body); err != nil {
		return "", fmt.Errorf("read %s: %w", fileURL, err)
	}

	return nixbase32.EncodeToString(hasher.Sum(nil)), nil
}
