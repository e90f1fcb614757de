package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"site-edge/internal/config"
	"site-edge/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance. Everything
// that is not an edge endpoint goes to the site handler, whatever the method.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, site *SiteHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/edge/status", health.Status)

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	e.Any("/", site.Handle)
	e.Any("/*", site.Handle)
}
