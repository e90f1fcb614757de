// Package service implements the asset fallback routing policy.
package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"site-edge/internal/assets"
	"site-edge/internal/metrics"
	"site-edge/internal/model"
)

// IndexPath is the site shell served for unmatched HTML navigations.
const IndexPath = "/index.html"

// FallbackRouter forwards every request to an asset store and substitutes the
// index document when an HTML navigation has no matching file. It holds no
// mutable state and is safe for concurrent use.
type FallbackRouter struct {
	store   assets.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewFallbackRouter creates a FallbackRouter. The metrics parameter is
// optional; pass nil to disable fallback counting.
func NewFallbackRouter(store assets.Store, logger *slog.Logger, m *metrics.Metrics) *FallbackRouter {
	return &FallbackRouter{
		store:   store,
		logger:  logger.With("component", "fallback_router"),
		metrics: m,
	}
}

// ShouldFallback reports whether resp, the store's answer to req, is a missed
// HTML navigation: a 404 to a GET whose Accept header mentions text/html.
func ShouldFallback(req *model.AssetRequest, resp *model.AssetResponse) bool {
	return resp.StatusCode == http.StatusNotFound &&
		req.Method == http.MethodGet &&
		strings.Contains(req.Accept(), "text/html")
}

// Route returns the store's answer to req, or, when ShouldFallback holds, the
// store's answer to the same request rewritten to IndexPath, whatever its
// status. The caller is responsible for closing the response body.
//
// Store errors are returned wrapped and are not retried.
func (r *FallbackRouter) Route(req *model.AssetRequest) (*model.AssetResponse, error) {
	primary, err := r.store.Fetch(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset: %w", err)
	}

	if !ShouldFallback(req, primary) {
		return primary, nil
	}
	if primary.Body != nil {
		_ = primary.Body.Close()
	}

	index, err := r.store.Fetch(req.WithPath(IndexPath))
	if err != nil {
		return nil, fmt.Errorf("fetch index document: %w", err)
	}

	r.logger.Debug("served index document for unmatched navigation",
		"path", requestPath(req),
		"status", index.StatusCode,
	)
	if r.metrics != nil {
		r.metrics.FallbacksTotal.WithLabelValues(strconv.Itoa(index.StatusCode)).Inc()
	}

	return index, nil
}

func requestPath(req *model.AssetRequest) string {
	if req.URL == nil {
		return ""
	}
	return req.URL.Path
}
