// Copyright (C) 2026 SeamWorks (opensource@seamworks.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

// =============================================================================
// HTTP Client Interface
// =============================================================================

// HTTPClient abstracts the HTTP operations the gateway performs, so
// tests can substitute a mock without a network.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type HTTPClient interface {
	// Get performs a GET request.
	Get(ctx context.Context, url string) (*http.Response, error)

	// GetWithHeaders performs a GET request with additional headers.
	GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*http.Response, error)

	// Post performs a POST request with the given content type.
	Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error)

	// PostWithHeaders performs a POST request with additional headers.
	PostWithHeaders(ctx context.Context, url, contentType string, body io.Reader, headers map[string]string) (*http.Response, error)
}

// =============================================================================
// Default Implementation
// =============================================================================

// httpClientAdapter implements HTTPClient on top of a *http.Client.
type httpClientAdapter struct {
	client *http.Client
}

// NewHTTPClient wraps an *http.Client in the HTTPClient interface.
func NewHTTPClient(client *http.Client) HTTPClient {
	return &httpClientAdapter{client: client}
}

func (a *httpClientAdapter) Get(ctx context.Context, url string) (*http.Response, error) {
	return a.GetWithHeaders(ctx, url, nil)
}

func (a *httpClientAdapter) GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return a.client.Do(req)
}

func (a *httpClientAdapter) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	return a.PostWithHeaders(ctx, url, contentType, body, nil)
}

func (a *httpClientAdapter) PostWithHeaders(ctx context.Context, url, contentType string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return a.client.Do(req)
}

// Compile-time interface compliance check.
var _ HTTPClient = (*httpClientAdapter)(nil)

// =============================================================================
// Shared Pooled Client
// =============================================================================

var sharedHTTPClient *http.Client
var sharedHTTPClientOnce sync.Once

// getSharedHTTPClient returns a singleton HTTP client with connection
// pooling. Use this instead of creating new http.Client instances to
// keep file descriptor usage down across the CLI's commands.
func getSharedHTTPClient() *http.Client {
	sharedHTTPClientOnce.Do(func() {
		sharedHTTPClient = &http.Client{
			Timeout: DefaultRequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		}
	})
	return sharedHTTPClient
}

// getSharedHTTPClientWithTimeout returns a client with a custom timeout
// that still shares the pooled transport, so connections are reused.
func getSharedHTTPClientWithTimeout(timeout time.Duration) *http.Client {
	base := getSharedHTTPClient()
	if timeout == base.Timeout {
		return base
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: base.Transport,
	}
}
