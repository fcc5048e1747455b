package workers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetricsServer_Handler(t *testing.T) {
	req := require.New(t)
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "chat_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Add(3)

	srv := httptest.NewServer(NewMetricsServer(slog.Default(), 0, registry).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	req.NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)

	req.Equal(http.StatusOK, resp.StatusCode)
	req.Contains(string(body), "chat_test_total 3")
}
