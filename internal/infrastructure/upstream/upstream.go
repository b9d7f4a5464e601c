// Package upstream talks to the ticketing API. Requests go through the
// authenticating client; this package only shapes URLs and decodes payloads.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/revtickets/portal/internal/core/domain"
)

const maxErrorBody = 512

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Code)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrUpstream
}

// envelope is the API's standard response wrapper: { "data": ... }.
type envelope[T any] struct {
	Data T `json:"data"`
}

// API holds what every upstream call needs.
type API struct {
	base   *url.URL
	client *http.Client
}

// NewAPI parses baseURL (e.g. http://localhost:8081/api) and pairs it with the
// client that carries the request pipeline.
func NewAPI(baseURL string, client *http.Client) (*API, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("api base url %q is not absolute", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &API{base: u, client: client}, nil
}

// URL joins the base URL and path.
func (a *API) URL(path string) string {
	return a.base.JoinPath(path).String()
}

// do sends req and decodes a 2xx body into out. A body that is empty decodes
// into the zero value.
func (a *API) do(req *http.Request, out any) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: req.Method,
			URL:    req.URL.Path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrMalformedPayload, req.Method, req.URL.Path, err)
	}
	return nil
}

func (a *API) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return a.do(req, out)
}

func (a *API) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}
