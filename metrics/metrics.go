// Package metrics exposes Prometheus instrumentation for the university
// services and a small standalone metrics server.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/common"
)

var (
	// CoordinatorOps counts relationship operations by name and outcome
	// (ok, error, partial).
	CoordinatorOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "coordinator_operations_total",
		Help:      "Relationship coordinator operations by outcome.",
	}, []string{"op", "outcome"})

	// PartialFailures counts multi-step operations that left the stores
	// inconsistent, labeled by the step that failed.
	PartialFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "coordinator_partial_failures_total",
		Help:      "Relationship operations that completed only some of their writes.",
	}, []string{"op", "step"})

	// LazyGroupCreations counts groups created on first reference.
	LazyGroupCreations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: common.PackageName,
		Name:      "coordinator_lazy_group_creations_total",
		Help:      "Groups created lazily on first reference by id.",
	})
)

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr. An empty addr yields a
// server that is never started; callers check the address before running it.
func New(addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe runs the scrape endpoint until shutdown.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
