// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the model backends.
package httputil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RateLimit describes how a backend waits out HTTP 429 responses. Only
// rate limiting is retried; every other failure is returned to the caller
// at once.
type RateLimit struct {
	// Retries is the number of extra attempts after a 429. Zero sends the
	// request exactly once.
	Retries int

	// BaseDelay is the first backoff; it doubles each attempt. A
	// Retry-After header in seconds takes precedence.
	BaseDelay time.Duration

	// Log receives one line per backoff. Nil discards.
	Log io.Writer
}

// DefaultBaseDelay is used when BaseDelay is zero.
const DefaultBaseDelay = 2 * time.Second

// Do sends req through client and waits out 429 responses per the policy.
// After the last attempt the final 429 response is returned so the caller
// can report it. If ctx is cancelled during a wait, ctx.Err() is returned.
func (p RateLimit) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	return p.Send(req.WithContext(ctx), client.Do)
}

// Send is Do with the transport supplied by the caller, for clients that
// own their request pipeline (an SDK middleware chain, for one). The wait
// is bounded by req's context. A body without GetBody is read into memory
// so it can be re-sent.
func (p RateLimit) Send(req *http.Request, send func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	ctx := req.Context()
	log := p.Log
	if log == nil {
		log = io.Discard
	}
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	retries := p.Retries
	if retries > 0 && req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		buf, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("buffering request body: %w", err)
		}
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
		req.Body, _ = req.GetBody()
	}

	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			r.Body = body
		}
		resp, err := send(r)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= retries {
			return resp, nil
		}

		wait := retryAfter(resp.Header.Get("Retry-After"))
		if wait == 0 {
			wait = base << attempt
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(log, "rate limited, retrying in %v (attempt %d/%d)\n", wait, attempt+1, retries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// retryAfter parses a Retry-After value given in whole seconds.
func retryAfter(v string) time.Duration {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
