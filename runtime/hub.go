// Package runtime owns the live sessions: admission, registry, fan-out and
// the per-session lifecycle. It holds no wire format and no business rules
// beyond relaying.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

const (
	defaultSendTimeout  = 2 * time.Second
	defaultCloseTimeout = time.Second
)

type HubConfig struct {
	SendTimeout       time.Duration
	CloseTimeout      time.Duration
	OutboxSize        int
	EventBufferSize   int
	MaxUsernameLength int
	MaxMessageLength  int
	EchoToSender      bool
}

// Hub mediates every registry mutation and every fan-out.
//
// The registry lock only covers mutation and snapshot, never I/O.
// Join and Leave are additionally serialized by presenceMu for the duration
// of their broadcast, so each receiver queues presence notices in the same
// order the registry was mutated.
type Hub struct {
	log        *slog.Logger
	registry   *Registry
	config     HubConfig
	presenceMu sync.Mutex
	events     chan event.Event

	mu      sync.Mutex
	closing bool
	running map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewHub(log *slog.Logger, registry *Registry, config HubConfig) *Hub {
	if config.SendTimeout <= 0 {
		config.SendTimeout = defaultSendTimeout
	}
	if config.CloseTimeout <= 0 {
		config.CloseTimeout = defaultCloseTimeout
	}
	if config.EventBufferSize <= 0 {
		config.EventBufferSize = 1
	}
	return &Hub{
		log:      log,
		registry: registry,
		config:   config,
		events:   make(chan event.Event, config.EventBufferSize),
		running:  make(map[string]context.CancelFunc),
	}
}

// Events is the lifecycle stream observers subscribe to.
// Events are dropped rather than blocking the hub when nobody keeps up.
func (h *Hub) Events() <-chan event.Event { return h.events }

func (h *Hub) Members() []string { return h.registry.Members() }

// Admit validates and acknowledges a connecting peer.
func (h *Hub) Admit(transport contract.Transport, declared string) (*Session, error) {
	if h.isClosing() {
		reason := errors.ErrShuttingDown.Error()
		if err := transport.Refuse(reason); err != nil {
			h.log.Debug("Failed to send handshake refusal", "error", err)
		}
		h.log.Info("Connection refused", "declared_username", declared, "reason", reason)
		h.publish(event.New(event.SessionRejectedType, event.SessionRejected{
			Username: declared,
			Reason:   reason,
		}))
		return nil, errors.NewAdmissionError(errors.ErrShuttingDown, reason)
	}
	s, err := Admit(h.log, transport, declared, SessionOptions{
		OutboxSize:        h.config.OutboxSize,
		MaxUsernameLength: h.config.MaxUsernameLength,
	})
	if err != nil {
		var admission *errors.AdmissionError
		if stderrors.As(err, &admission) {
			h.log.Info("Connection refused", "declared_username", declared, "reason", admission.Reason)
			h.publish(event.New(event.SessionRejectedType, event.SessionRejected{
				Username: declared,
				Reason:   admission.Reason,
			}))
		}
		return nil, err
	}
	h.log.Info("Connection admitted", "session_id", s.ID(), "username", s.Username())
	h.publish(event.New(event.SessionAdmittedType, event.SessionAdmitted{
		SessionID: s.ID(),
		Username:  s.Username(),
	}))
	return s, nil
}

// Join inserts the session and broadcasts the join to the updated registry,
// the newcomer included.
func (h *Hub) Join(ctx context.Context, s *Session) {
	h.presenceMu.Lock()
	defer h.presenceMu.Unlock()

	membership, added := h.registry.Add(s)
	if !added {
		h.log.Debug("Session already joined", "session_id", s.ID())
		return
	}
	notice := domain.NewPresenceNotice(domain.Joined, s.Username(), membership.Members)
	h.Broadcast(ctx, domain.PresenceEnvelope(notice), membership.Sessions)

	h.publish(event.New(event.MemberJoinedType, event.MemberJoined{
		SessionID: s.ID(),
		Username:  s.Username(),
		Members:   notice.CurrentMembers,
	}))
}

// Leave removes the session and broadcasts the departure to those who remain.
// Calling it for a session that already left does nothing and returns false.
func (h *Hub) Leave(ctx context.Context, s *Session) bool {
	h.presenceMu.Lock()
	defer h.presenceMu.Unlock()

	membership, removed := h.registry.Remove(s)
	if !removed {
		return false
	}
	notice := domain.NewPresenceNotice(domain.Left, s.Username(), membership.Members)
	h.Broadcast(ctx, domain.PresenceEnvelope(notice), membership.Sessions)

	h.publish(event.New(event.MemberLeftType, event.MemberLeft{
		SessionID: s.ID(),
		Username:  s.Username(),
		Members:   notice.CurrentMembers,
	}))
	return true
}

// Relay broadcasts a chat message to a point-in-time snapshot of the registry.
// The sender is part of the audience unless EchoToSender is off.
func (h *Hub) Relay(ctx context.Context, from *Session, message domain.ChatMessage) BroadcastReport {
	targets := h.registry.Snapshot()
	if from != nil && !h.config.EchoToSender {
		targets = lo.Filter(targets, func(s *Session, _ int) bool { return s.ID() != from.ID() })
	}
	report := h.Broadcast(ctx, domain.MessageEnvelope(message), targets)

	relayed := event.MessageRelayed{
		Recipients: report.Delivered,
		Failed:     len(report.Failures),
		Duration:   report.Duration,
	}
	if from != nil {
		relayed.SessionID, relayed.Username = from.ID(), from.Username()
	}
	h.publish(event.New(event.MessageRelayedType, relayed))
	return report
}

// RunSession drives one admitted session through Active, Draining and Closed.
// Join and Leave are issued exactly once each and in that order; no message
// is read before Join completes or relayed after reading stops.
func (h *Hub) RunSession(ctx context.Context, s *Session) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !h.track(s, cancel) {
		s.Close(h.config.CloseTimeout)
		return errors.ErrSessionClosed
	}
	defer h.untrack(s)

	// Broadcasts are bounded by the send timeout, not by this peer's lifetime.
	sendCtx := context.WithoutCancel(ctx)

	h.Join(sendCtx, s)
	s.setState(Active)

	for {
		message, err := s.ReadNext(runCtx)
		if err != nil {
			h.logEndOfStream(s, err)
			break
		}
		if err := message.Validate(h.config.MaxMessageLength); err != nil {
			h.log.Warn("Dropping invalid message", "session_id", s.ID(), "username", s.Username(), "error", err)
			continue
		}
		h.Relay(sendCtx, s, message.WithSender(s.Username()))
	}

	s.setState(Draining)
	h.Leave(sendCtx, s)
	s.Close(h.config.CloseTimeout)
	return nil
}

func (h *Hub) logEndOfStream(s *Session, err error) {
	switch {
	case stderrors.Is(err, io.EOF):
		h.log.Info("Peer closed its stream", "session_id", s.ID(), "username", s.Username())
	case stderrors.Is(err, context.Canceled):
		h.log.Info("Session stopped", "session_id", s.ID(), "username", s.Username())
	default:
		h.log.Warn("Session read failed", "session_id", s.ID(), "username", s.Username(), "error", err)
	}
}

func (h *Hub) isClosing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closing
}

func (h *Hub) track(s *Session, cancel context.CancelFunc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.running[s.ID()] = cancel
	h.wg.Add(1)
	return true
}

func (h *Hub) untrack(s *Session) {
	h.mu.Lock()
	delete(h.running, s.ID())
	h.mu.Unlock()
	h.wg.Done()
}

// Shutdown stops every session loop and waits for them to retire,
// giving up when ctx is done. New sessions are refused from then on.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	cancels := lo.Values(h.running)
	h.mu.Unlock()

	h.log.Info("Closing sessions", "count", len(cancels))
	for _, cancel := range cancels {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("All sessions closed")
		return nil
	case <-ctx.Done():
		h.log.Warn("Shutdown deadline reached before every session closed")
		return ctx.Err()
	}
}

func (h *Hub) publish(e event.Event) {
	select {
	case h.events <- e:
	default:
		h.log.Debug("Lifecycle event lost", "type", e.Type)
	}
}
