package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "gridfleet"
	subsystem = "simulation"
)

// Registry holds every collector when metrics are enabled. A nil
// registry turns Register calls into no-ops.
var Registry *prometheus.Registry

// InitRegistry creates the registry. Call once at startup, before any
// collector registers.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the registry, nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled reports whether InitRegistry has run.
func IsEnabled() bool {
	return Registry != nil
}

// Handler serves the registry over HTTP, nil when metrics are disabled.
func Handler() http.Handler {
	if Registry == nil {
		return nil
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
