package runtime

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"sync"
	"time"
)

// DeliveryFailure is one destination's failed send within a broadcast.
type DeliveryFailure struct {
	SessionID string
	Username  string
	Err       error
}

// BroadcastReport is the gathered outcome of one fan-out.
// Failures are recorded here and logged; they are never returned as an error.
type BroadcastReport struct {
	Kind      string
	Targets   int
	Delivered int
	Failures  []DeliveryFailure
	Duration  time.Duration
}

func (r BroadcastReport) PartialFailure() bool { return len(r.Failures) > 0 }

// Broadcast sends the envelope to every target independently and concurrently.
// Each send is bounded by the send timeout; a failing or stalled destination
// is attributed and logged but never delays or cancels the others.
// It returns once every send has completed, failed or timed out.
func (h *Hub) Broadcast(ctx context.Context, envelope domain.Envelope, targets []*Session) BroadcastReport {
	type sendResult struct {
		session *Session
		err     error
	}

	start := time.Now()
	results := make(chan sendResult, len(targets))
	var wg sync.WaitGroup

	// Scatter: one goroutine per destination.
	for _, target := range targets {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, h.config.SendTimeout)
			defer cancel()
			results <- sendResult{session: s, err: s.Send(sendCtx, envelope)}
		}(target)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Gather: one result per destination, errors never short-circuit.
	report := BroadcastReport{Kind: envelope.Kind(), Targets: len(targets)}
	for res := range results {
		if res.err == nil {
			report.Delivered++
			continue
		}
		report.Failures = append(report.Failures, DeliveryFailure{
			SessionID: res.session.ID(),
			Username:  res.session.Username(),
			Err:       res.err,
		})
		h.log.Warn("Broadcast delivery failed",
			"session_id", res.session.ID(),
			"username", res.session.Username(),
			"envelope", envelope.Kind(),
			"error", res.err)
		h.publish(event.New(event.DeliveryFailedType, event.DeliveryFailed{
			SessionID: res.session.ID(),
			Username:  res.session.Username(),
			Envelope:  envelope.Kind(),
			Err:       res.err,
		}))
	}
	report.Duration = time.Since(start)
	return report
}
