// Package rest executes requests against the remote HTTP API and
// translates status codes into typed errors.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
)

// APIError is the error body the remote API attaches to non-2xx
// responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Code       int    `json:"code"`
	Errors     any    `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

type REST struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
}

type Options struct {
	Headers map[string]string
}

func NewREST(baseURL, botToken string) *REST {
	return &REST{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		botToken:   botToken,
	}
}

func (r *REST) makeRequest(ctx context.Context, method string, path string, body io.Reader, options *Options) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	// Mandatory headers.
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Authorization", fmt.Sprintf("Bot %s", r.botToken))
	if options != nil {
		for k, v := range options.Headers {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

// Do executes one request. The body, when non-nil, is JSON-encoded.
// On a non-2xx status the returned error wraps the matching sentinel
// and carries the decoded *APIError.
func (r *REST) Do(ctx context.Context, method string, path string, body any, options *Options) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := r.makeRequest(ctx, method, path, reader, options)
	if err != nil {
		return nil, err
	}
	res, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return data, nil
	}
	apiErr := &APIError{StatusCode: res.StatusCode}
	_ = json.Unmarshal(data, apiErr)
	return nil, fmt.Errorf("%w: %w", statusError(res.StatusCode), apiErr)
}

func statusError(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	}
	return fmt.Errorf("unexpected status %d", status)
}

func (r *REST) Get(ctx context.Context, path string, options *Options) ([]byte, error) {
	return r.Do(ctx, http.MethodGet, path, nil, options)
}

func (r *REST) Post(ctx context.Context, path string, body any, options *Options) ([]byte, error) {
	return r.Do(ctx, http.MethodPost, path, body, options)
}

func (r *REST) Put(ctx context.Context, path string, body any, options *Options) ([]byte, error) {
	return r.Do(ctx, http.MethodPut, path, body, options)
}

func (r *REST) Patch(ctx context.Context, path string, body any, options *Options) ([]byte, error) {
	return r.Do(ctx, http.MethodPatch, path, body, options)
}

func (r *REST) Delete(ctx context.Context, path string, options *Options) ([]byte, error) {
	return r.Do(ctx, http.MethodDelete, path, nil, options)
}
