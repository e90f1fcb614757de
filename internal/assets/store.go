// Package assets resolves requests against a tree of built static files.
package assets

import (
	"strconv"
	"time"

	"site-edge/internal/metrics"
	"site-edge/internal/model"
)

// Store maps a request to a response drawn from a set of static files. A
// missing file is a 404 response, not an error; errors are reserved for
// faults of the store itself.
type Store interface {
	Fetch(req *model.AssetRequest) (*model.AssetResponse, error)
}

// Instrumented wraps s so that every Fetch is recorded under the given store
// name. A nil m returns s unchanged.
func Instrumented(s Store, name string, m *metrics.Metrics) Store {
	if m == nil {
		return s
	}
	return &instrumentedStore{store: s, name: name, metrics: m}
}

type instrumentedStore struct {
	store   Store
	name    string
	metrics *metrics.Metrics
}

func (i *instrumentedStore) Fetch(req *model.AssetRequest) (*model.AssetResponse, error) {
	start := time.Now()
	resp, err := i.store.Fetch(req)
	duration := time.Since(start).Seconds()

	method := metrics.NormalizeMethod(req.Method)
	i.metrics.AssetFetchDuration.WithLabelValues(i.name, method).Observe(duration)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	i.metrics.AssetResponses.WithLabelValues(i.name, method, status).Inc()

	return resp, err
}
