package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsShutdownTimeout = 2 * time.Second

// MetricsServer exposes the Prometheus registry on /metrics.
type MetricsServer struct {
	log      *slog.Logger
	address  string
	gatherer prometheus.Gatherer
}

func NewMetricsServer(log *slog.Logger, port int, gatherer prometheus.Gatherer) *MetricsServer {
	return &MetricsServer{log: log, address: fmt.Sprintf(":%d", port), gatherer: gatherer}
}

func (m *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Run serves until ctx is canceled. A listen failure is returned so the
// supervisor can retry it.
func (m *MetricsServer) Run(ctx context.Context) error {
	srv := &http.Server{Addr: m.address, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errChan := make(chan error, 1)
	go func() {
		m.log.Info("Starting metrics server", "address", m.address)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
