package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length and capacity of
// buffered channels into gauges. Reading len and cap never blocks, so the
// sampled channels are unaffected. A full lifecycle buffer means observers
// fall behind and events are being dropped.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	length         *prometheus.GaugeVec
	capacity       *prometheus.GaugeVec
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger,
	length, capacity *prometheus.GaugeVec,
	metricInterval time.Duration, channels ...NamedChannel) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log: log, channels: channels,
		length:         length,
		capacity:       capacity,
		metricInterval: metricInterval,
	}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

func (w ChannelCapacityWorker) Sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		// Verify if this is a channel
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		w.length.WithLabelValues(nc.Name).Set(float64(v.Len()))
		w.capacity.WithLabelValues(nc.Name).Set(float64(v.Cap()))
	}
}
