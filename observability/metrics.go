// Package observability defines the Prometheus collectors of the relay.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ConnectedClients prometheus.Gauge
	Admissions       *prometheus.CounterVec
	PresenceNotices  *prometheus.CounterVec
	MessagesRelayed  prometheus.Counter
	DeliveryFailures *prometheus.CounterVec
	RelayDuration    prometheus.Histogram
	ChannelLength    *prometheus.GaugeVec
	ChannelCapacity  *prometheus.GaugeVec
}

// NewMetrics builds the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_connected_clients",
			Help: "Number of sessions currently in the registry",
		}),
		Admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_admissions_total",
			Help: "Handshakes by result",
		}, []string{"result"}),
		PresenceNotices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_presence_notices_total",
			Help: "Presence notices broadcast by kind",
		}, []string{"kind"}),
		MessagesRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_messages_relayed_total",
			Help: "Chat messages relayed to the registry",
		}),
		DeliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_delivery_failures_total",
			Help: "Failed per-destination sends by envelope kind",
		}, []string{"envelope"}),
		RelayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chat_relay_duration_seconds",
			Help:    "Time for one chat message fan-out to complete",
			Buckets: prometheus.DefBuckets,
		}),
		ChannelLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chat_channel_length",
			Help: "Items waiting in an internal channel",
		}, []string{"channel"}),
		ChannelCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chat_channel_capacity",
			Help: "Buffer size of an internal channel",
		}, []string{"channel"}),
	}
	reg.MustRegister(
		m.ConnectedClients,
		m.Admissions,
		m.PresenceNotices,
		m.MessagesRelayed,
		m.DeliveryFailures,
		m.RelayDuration,
		m.ChannelLength,
		m.ChannelCapacity,
	)
	return m
}
