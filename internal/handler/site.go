package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"site-edge/internal/model"
	"site-edge/internal/service"
)

// SiteHandler answers site requests through the fallback router.
type SiteHandler struct {
	router *service.FallbackRouter
	logger *slog.Logger
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(router *service.FallbackRouter, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		router: router,
		logger: logger.With("component", "site_handler"),
	}
}

// Handle routes the request to the asset store and streams the chosen
// response back unchanged.
func (h *SiteHandler) Handle(c echo.Context) error {
	req := c.Request()

	u := *req.URL
	if u.Host == "" {
		u.Host = req.Host
	}
	if u.Scheme == "" {
		u.Scheme = c.Scheme()
	}

	ar := &model.AssetRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		URL:    &u,
		Header: req.Header,
		Body:   req.Body,
	}

	resp, err := h.router.Route(ar)
	if err != nil {
		return h.mapError(c, err)
	}
	if resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}

	for key, vals := range resp.Header {
		for _, v := range vals {
			c.Response().Header().Add(key, v)
		}
	}

	c.Response().WriteHeader(resp.StatusCode)

	if req.Method == http.MethodHead || resp.Body == nil {
		return nil
	}

	// The status line is already out; a failed copy can only be logged and
	// leaves the client with a truncated body.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming response body",
			"err", err,
			"path", req.URL.Path,
		)
	}

	return nil
}

// mapError turns an asset store fault into a generic failure response
// without exposing its details.
func (h *SiteHandler) mapError(c echo.Context, err error) error {
	h.logger.Error("asset store error",
		"err", err,
		"path", c.Request().URL.Path,
	)

	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusGatewayTimeout, map[string]string{
			"error": "asset origin timed out",
		})
	}

	if errors.Is(err, context.Canceled) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "client disconnected",
		})
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "asset origin unreachable",
		})
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "asset origin connection failed",
		})
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
