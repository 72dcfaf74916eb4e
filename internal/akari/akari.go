// Copyright (c) 2026 camp-sub001 contributors.

/*
Package akari is the outbound HTTP client the download pipeline uses to
fetch feed bodies and release payloads, bounding every request with a
connect+read/write timeout budget so a stalled peer cannot hang the
single-threaded core (see SPEC_FULL.md §5).
*/
package akari

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// DefaultTimeout bounds an entire request/response round trip, including
// connection establishment and body drain.
const DefaultTimeout = 30 * time.Second

// Client fetches remote bytes over HTTP with a bounded request timeout.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// New constructs a Client. A zero timeout falls back to [DefaultTimeout].
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Fetch retrieves the body at url, bounded by ctx and the Client's own
// timeout, whichever is shorter.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.IO("build request for "+url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.IO("fetch "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.IO("fetch "+url, errStatus(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.IO("read response body for "+url, err)
	}
	return body, nil
}

type errStatus int

func (e errStatus) Error() string {
	return "unexpected HTTP status " + http.StatusText(int(e))
}
