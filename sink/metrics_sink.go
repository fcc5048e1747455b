package sink

import (
	"chat-relay/domain/event"
	"chat-relay/observability"
	"context"
)

// MetricsSink turns lifecycle events into Prometheus samples.
type MetricsSink struct {
	metrics *observability.Metrics
}

func NewMetricsSink(metrics *observability.Metrics) MetricsSink {
	return MetricsSink{metrics: metrics}
}

func (m MetricsSink) Consume(_ context.Context, e event.Event) error {
	switch payload := e.Payload.(type) {
	case event.SessionAdmitted:
		m.metrics.Admissions.WithLabelValues("accepted").Inc()
	case event.SessionRejected:
		m.metrics.Admissions.WithLabelValues("refused").Inc()
	case event.MemberJoined:
		m.metrics.ConnectedClients.Set(float64(len(payload.Members)))
		m.metrics.PresenceNotices.WithLabelValues("joined").Inc()
	case event.MemberLeft:
		m.metrics.ConnectedClients.Set(float64(len(payload.Members)))
		m.metrics.PresenceNotices.WithLabelValues("left").Inc()
	case event.MessageRelayed:
		m.metrics.MessagesRelayed.Inc()
		m.metrics.RelayDuration.Observe(payload.Duration.Seconds())
	case event.DeliveryFailed:
		m.metrics.DeliveryFailures.WithLabelValues(payload.Envelope).Inc()
	}
	return nil
}
