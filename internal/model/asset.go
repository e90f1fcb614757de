// Package model defines the transient request and response values passed
// between the HTTP surface, the fallback router and the asset stores.
package model

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// AssetRequest is an inbound request as seen by an asset store.
type AssetRequest struct {
	Ctx    context.Context
	Method string
	URL    *url.URL
	Header http.Header
	Body   io.ReadCloser
}

// AssetResponse is an asset store's answer. The caller owns Body and must
// close it.
type AssetResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Accept returns the request's Accept header, or "" when absent.
func (r *AssetRequest) Accept() string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get("Accept")
}

// Context returns the request context, defaulting to context.Background.
func (r *AssetRequest) Context() context.Context {
	if r.Ctx == nil {
		return context.Background()
	}
	return r.Ctx
}

// WithPath returns a new request identical to r except that its URL path is
// p. Scheme, host and query are kept; the header is cloned. r is not modified.
func (r *AssetRequest) WithPath(p string) *AssetRequest {
	u := &url.URL{Path: p}
	if r.URL != nil {
		clone := *r.URL
		clone.Path = p
		clone.RawPath = ""
		u = &clone
	}

	return &AssetRequest{
		Ctx:    r.Ctx,
		Method: r.Method,
		URL:    u,
		Header: r.Header.Clone(),
		Body:   r.Body,
	}
}
