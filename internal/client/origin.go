// Package client provides an asset store backed by a remote HTTP origin.
package client

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"site-edge/internal/config"
	"site-edge/internal/model"
)

// forwardableRequestHeaders are the only request headers forwarded to the origin.
var forwardableRequestHeaders = []string{
	"Accept",
	"Accept-Encoding",
	"Accept-Language",
	"If-None-Match",
	"If-Modified-Since",
	"Range",
}

// forwardableResponseHeaders are the only origin response headers passed back.
var forwardableResponseHeaders = map[string]bool{
	"Content-Type":     true,
	"Content-Length":   true,
	"Content-Encoding": true,
	"Content-Range":    true,
	"Accept-Ranges":    true,
	"Cache-Control":    true,
	"Etag":             true,
	"Last-Modified":    true,
	"Date":             true,
}

const userAgent = "site-edge/1.0"

// OriginClient fetches static assets from a remote origin such as a storage
// bucket website endpoint.
type OriginClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    *url.URL
}

// NewOriginClient creates an OriginClient with connection pooling and timeouts.
func NewOriginClient(cfg *config.Config, logger *slog.Logger) (*OriginClient, error) {
	u, err := url.Parse(cfg.Origin.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse origin base_url: %w", err)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.Origin.IdleConnections,
		MaxIdleConnsPerHost: cfg.Origin.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &OriginClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Origin.TimeoutSeconds) * time.Second,
			// Origin redirects are passed through to the client.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:  logger.With("component", "origin_client"),
		baseURL: u,
	}, nil
}

// Fetch requests the asset at req's path (and query) from the origin. Any
// origin status, 404 included, is returned as a response; only transport
// failures are errors. The caller is responsible for closing the response body.
// The request context controls the lifetime of the origin request.
func (c *OriginClient) Fetch(req *model.AssetRequest) (*model.AssetResponse, error) {
	target := c.buildURL(req.URL)

	upstream, err := http.NewRequestWithContext(req.Context(), req.Method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build origin request: %w", err)
	}
	upstream.Header = filterRequestHeaders(req.Header)

	c.logger.Debug("origin request",
		"method", req.Method,
		"path", upstream.URL.Path,
	)

	resp, err := c.httpClient.Do(upstream) //nolint:bodyclose // body ownership transfers to caller via AssetResponse
	if err != nil {
		return nil, fmt.Errorf("origin request: %w", err)
	}

	return &model.AssetResponse{
		StatusCode: resp.StatusCode,
		Header:     filterResponseHeaders(resp.Header),
		Body:       resp.Body,
	}, nil
}

func (c *OriginClient) buildURL(src *url.URL) string {
	u := *c.baseURL
	if src == nil {
		return u.String()
	}

	basePath := u.Path
	if len(basePath) > 0 && basePath[len(basePath)-1] == '/' {
		basePath = basePath[:len(basePath)-1]
	}
	u.Path = basePath + src.Path
	u.RawPath = ""
	u.RawQuery = src.RawQuery

	return u.String()
}

func filterRequestHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for _, key := range forwardableRequestHeaders {
		if vals := src.Values(key); len(vals) > 0 {
			dst[http.CanonicalHeaderKey(key)] = vals
		}
	}
	dst.Set("User-Agent", userAgent)
	return dst
}

func filterResponseHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for key, vals := range src {
		if forwardableResponseHeaders[http.CanonicalHeaderKey(key)] {
			dst[key] = vals
		}
	}
	return dst
}
