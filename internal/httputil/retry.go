// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAttempts = 2

// Response is a fully-read HTTP response: the status code and the complete
// body. The underlying connection is already released when it is returned.
type Response struct {
	StatusCode int
	Body       []byte
}

// GetWithRetry issues a GET request for url and retries until it sees
// HTTP 200 or the attempt budget is spent. Exactly attempts requests are
// made (the default 2 is used when attempts is 0), spaced by a fixed
// backoff; transport failures and non-200 statuses are retried alike, and
// there is no sleep after the final attempt.
//
// The final attempt's response is returned even when its status is not 200
// so the caller can inspect it. An error is returned only when the request
// cannot be built, the context is cancelled during a backoff wait, or the
// final attempt produced no HTTP response at all.
func GetWithRetry(ctx context.Context, client *http.Client, url, userAgent string, attempts int, backoff time.Duration) (*Response, error) {
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	var last *Response
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		last, lastErr = get(client, req.Clone(ctx))
		if lastErr == nil && last.StatusCode == http.StatusOK {
			return last, nil
		}

		// No sleep after the final attempt.
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("GET %s failed after %d attempts: %w", url, attempts, lastErr)
	}
	return last, nil
}

// get performs a single request and reads the body to completion so the
// connection can be reused across attempts.
func get(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", req.URL, err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
