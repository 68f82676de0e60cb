// Package rest implements service.Service against the todo REST API,
// trying an ordered list of base addresses for every call.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-call request id.
// The same id is sent to every address tried for one call.
const RequestIDHeader = "X-Request-Id"

// ErrNoServers is returned when the address list is empty.
var ErrNoServers = errors.New("no servers configured")

// ErrInvalidJSON is returned when a successful response body is not JSON.
var ErrInvalidJSON = errors.New("response is not valid JSON")

// StatusError reports a non-2xx response from one address.
type StatusError struct {
	Server string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Request describes one logical call.
type Request struct {
	// Method defaults to GET.
	Method string

	// Header is copied onto every attempt.
	Header http.Header

	// Body is JSON-encoded when non-nil.
	Body any
}

// Fetcher sends a request to each server in order until one succeeds.
// It holds no state between calls.
type Fetcher struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Servers are base addresses without a trailing slash.
	Servers []string

	// UserAgent is sent on every attempt when non-empty.
	UserAgent string

	// Logger receives one debug line per attempt. Nil discards.
	Logger *slog.Logger
}

// Fetch performs req against path on each server in turn.
//
// A transport error, a non-2xx status or a non-JSON body marks that server
// as failed and the next one is tried. The first success wins: DELETE
// yields "{}" without reading the body, anything else yields the body.
// When every server fails, the last error is returned.
func (f *Fetcher) Fetch(ctx context.Context, path string, req Request) ([]byte, error) {
	if len(f.Servers) == 0 {
		return nil, ErrNoServers
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	rid := uuid.NewString()
	log := f.logger().With("method", method, "path", path, "request_id", rid)

	var lastErr error
	for i, base := range f.Servers {
		if i > 0 {
			log.Debug("falling back", "server", base, "previous_error", lastErr)
		}
		data, err := f.attempt(ctx, base, path, method, rid, req.Header, body)
		if err == nil {
			log.Debug("request succeeded", "server", base)
			return data, nil
		}
		log.Debug("request failed", "server", base, "error", err)
		lastErr = err

		// A cancelled context fails every remaining server the same way.
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (f *Fetcher) attempt(ctx context.Context, base, path, method, rid string, header http.Header, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if f.UserAgent != "" {
		httpReq.Header.Set("User-Agent", f.UserAgent)
	}
	httpReq.Header.Set(RequestIDHeader, rid)

	resp, err := f.client().Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Server: base, Code: resp.StatusCode}
	}

	// Delete responses are not assumed to carry a body.
	if method == http.MethodDelete {
		return []byte("{}"), nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	return data, nil
}

func (f *Fetcher) client() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return http.DefaultClient
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.New(slog.DiscardHandler)
}
