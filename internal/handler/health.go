package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"site-edge/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the build version and where assets are served from.
func (h *HealthHandler) Status(c echo.Context) error {
	body := map[string]string{
		"status":       "ok",
		"version":      string(h.version),
		"asset_source": h.cfg.Assets.Source,
	}
	switch h.cfg.Assets.Source {
	case config.SourceDir:
		body["asset_dir"] = h.cfg.Assets.Dir
	case config.SourceOrigin:
		body["origin_url"] = h.cfg.Origin.BaseURL
	}
	return c.JSON(http.StatusOK, body)
}
