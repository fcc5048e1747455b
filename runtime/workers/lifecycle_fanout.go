package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LifecycleFanout delivers hub lifecycle events to every registered sink.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. Each sink gets its own goroutine and its own
// timeout, so a slow journal never holds back the logs or the metrics.
//
// It is intended for observability and side effects (logs, metrics, journal),
// never for relaying chat traffic.
type LifecycleFanout struct {
	log         *slog.Logger
	events      <-chan event.Event
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewLifecycleFanout(log *slog.Logger, events <-chan event.Event, sinkTimeout time.Duration, sinks ...contract.EventSink) *LifecycleFanout {
	return &LifecycleFanout{log: log, events: events, sinks: sinks, sinkTimeout: sinkTimeout}
}

func (w *LifecycleFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping lifecycle fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout hands one event to every sink and waits for all of them,
// each bounded by the sink timeout.
func (w *LifecycleFanout) Fanout(ctx context.Context, evt event.Event) {
	var wg sync.WaitGroup
	for _, sink := range w.sinks {
		wg.Add(1)
		go func(s contract.EventSink) {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			if err := s.Consume(sinkCtx, evt); err != nil {
				w.log.Warn("Sink failed to consume lifecycle event",
					"sink", sinkName(s), "type", evt.Type, "error", err)
			}
		}(sink)
	}
	wg.Wait()
}

func sinkName(s contract.EventSink) string {
	return fmt.Sprintf("%T", s)
}
