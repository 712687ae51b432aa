package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinel failures that abort a run before or after any requests.
var (
	// ErrNoSupportedSites is returned when none of the requested site
	// names match a known source.
	ErrNoSupportedSites = errors.New("scraper: no supported sites requested")

	// ErrNoResults is returned when every search page came back empty.
	ErrNoResults = errors.New("scraper: search returned no results")
)

// Category classifies a request failure for metrics and logging.
type Category string

const (
	CategoryTimeout     Category = "timeout"
	CategoryConnection  Category = "connection"
	CategoryForbidden   Category = "forbidden"
	CategoryNotFound    Category = "not_found"
	CategoryRateLimited Category = "rate_limited"
	CategoryOther       Category = "other"
)

// FetchError wraps a failed search-page request with its
// classification and the URL that failed.
type FetchError struct {
	Category Category
	URL      string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Category, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// newFetchError classifies a colly error plus response status into a
// FetchError.
func newFetchError(url string, err error, statusCode int) *FetchError {
	return &FetchError{
		Category: classify(err, statusCode),
		URL:      url,
		Err:      err,
	}
}

func classify(err error, statusCode int) Category {
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CategoryConnection
	}

	switch statusCode {
	case http.StatusForbidden:
		return CategoryForbidden
	case http.StatusNotFound:
		return CategoryNotFound
	case http.StatusTooManyRequests:
		return CategoryRateLimited
	}
	return CategoryOther
}
