// Package metrics exposes Prometheus instrumentation for the recipe server.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipeserver/internal/recipe"
)

const namespace = "recipeserver"

// Registry owns a private Prometheus registry and the server's collectors.
type Registry struct {
	registry        *prometheus.Registry
	navigations     *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	recipesStored   prometheus.Gauge
}

// New registers all collectors, including Go runtime and process collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		registry: reg,
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigation_total",
			Help:      "Navigation requests by direction and outcome.",
		}, []string{"direction", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		recipesStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recipes_stored",
			Help:      "Recipes present in the store at startup.",
		}),
	}

	reg.MustRegister(
		r.navigations,
		r.requests,
		r.requestDuration,
		r.recipesStored,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveNavigation implements recipe.Observer.
func (r *Registry) ObserveNavigation(direction string, err error) {
	switch recipe.Direction(direction) {
	case recipe.DirectionRandom, recipe.DirectionNext, recipe.DirectionPrev:
	default:
		direction = "invalid"
	}
	r.navigations.WithLabelValues(direction, outcome(err)).Inc()
}

// SetRecipesStored records how many recipes the store holds.
func (r *Registry) SetRecipesStored(n int64) {
	r.recipesStored.Set(float64(n))
}

// ObserveRequest records one served HTTP request.
func (r *Registry) ObserveRequest(route string, code int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, recipe.ErrNotFound):
		return "not_found"
	case errors.Is(err, recipe.ErrInvalidDirection):
		return "invalid_direction"
	default:
		return "error"
	}
}
