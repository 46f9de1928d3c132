// Package httputil provides HTTP utilities for remote layout engines.
//
// # Overview
//
// This package provides infrastructure shared by HTTP-backed collaborators:
//
//   - [Client]: JSON POST with default headers, status mapping and hooks
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    return client.PostJSON(ctx, url, req, &resp)
//	})
//
// Only errors wrapped in [RetryableError] are retried. [Client] wraps
// network failures and 5xx responses that way; 4xx responses are returned
// immediately.
package httputil
