package workers

import (
	"chat-relay/observability"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestChannelCapacityWorker_Sample(t *testing.T) {
	req := require.New(t)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	events := make(chan int, 8)
	events <- 1
	events <- 2
	worker := NewChannelCapacityWorker(slog.Default(), metrics.ChannelLength, metrics.ChannelCapacity, time.Second,
		NamedChannel{Name: "lifecycle_events", Channel: events},
		NamedChannel{Name: "not_a_channel", Channel: 42},
	)

	worker.Sample()

	req.Equal(2.0, gaugeValue(t, metrics.ChannelLength, "lifecycle_events"))
	req.Equal(8.0, gaugeValue(t, metrics.ChannelCapacity, "lifecycle_events"))
}

func TestChannelCapacityWorker_Run_StopsWithContext(t *testing.T) {
	req := require.New(t)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	worker := NewChannelCapacityWorker(slog.Default(), metrics.ChannelLength, metrics.ChannelCapacity, 5*time.Millisecond,
		NamedChannel{Name: "lifecycle_events", Channel: make(chan int, 4)})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	req.NoError(worker.Run(ctx))
	req.Equal(4.0, gaugeValue(t, metrics.ChannelCapacity, "lifecycle_events"))
}

func gaugeValue(t *testing.T, vec *prometheus.GaugeVec, label string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, vec.WithLabelValues(label).Write(&m))
	return m.GetGauge().GetValue()
}
