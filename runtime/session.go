package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type State int32

const (
	Admitting State = iota
	Active
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Admitting:
		return "admitting"
	case Active:
		return "active"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

type SessionOptions struct {
	OutboxSize        int
	MaxUsernameLength int
}

type inbound struct {
	message domain.ChatMessage
	err     error
}

// Session is one peer's live duplex connection and its declared identity.
// It knows nothing about other sessions: the Hub owns it from admission
// until retirement.
type Session struct {
	id        string
	username  string
	transport contract.Transport
	log       *slog.Logger
	state     atomic.Int32

	outbox     chan domain.Envelope
	inbound    chan inbound
	done       chan struct{}
	writerDone chan struct{}
	failed     chan struct{}

	mu       sync.Mutex
	writeErr error

	readerOnce sync.Once
	failOnce   sync.Once
	closeOnce  sync.Once
}

// Admit validates the declared username and completes the handshake.
// A refused peer gets a human-readable reason on its transport and never
// becomes a Session, so it can never reach the registry.
func Admit(log *slog.Logger, transport contract.Transport, declared string, opts SessionOptions) (*Session, error) {
	username, err := domain.NormalizeUsername(declared, opts.MaxUsernameLength)
	if err != nil {
		reason := refusalReason(err)
		if refuseErr := transport.Refuse(reason); refuseErr != nil {
			log.Debug("Failed to send handshake refusal", "error", refuseErr)
		}
		return nil, errors.NewAdmissionError(err, reason)
	}

	id := uuid.NewString()
	if err := transport.Acknowledge(id); err != nil {
		return nil, errors.NewTransportError(id, "handshake", err)
	}

	if opts.OutboxSize <= 0 {
		opts.OutboxSize = 1
	}
	s := &Session{
		id:         id,
		username:   username,
		transport:  transport,
		log:        log.With("session_id", id, "username", username),
		outbox:     make(chan domain.Envelope, opts.OutboxSize),
		inbound:    make(chan inbound),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
		failed:     make(chan struct{}),
	}
	go s.writeLoop()
	return s, nil
}

func refusalReason(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrMissingUsername):
		return "You must enter a username"
	default:
		return err.Error()
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Username() string { return s.username }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(state State) { s.state.Store(int32(state)) }

func (s *Session) Context() context.Context { return s.transport.Context() }

// ReadNext blocks until the peer sends a message, ends its stream, or ctx is done.
// The end of the stream is reported as io.EOF. Only one goroutine may read.
func (s *Session) ReadNext(ctx context.Context) (domain.ChatMessage, error) {
	s.readerOnce.Do(func() { go s.readLoop() })

	select {
	case in, ok := <-s.inbound:
		if !ok {
			return domain.ChatMessage{}, io.EOF
		}
		return in.message, in.err
	case <-s.done:
		return domain.ChatMessage{}, errors.NewTransportError(s.id, "read", errors.ErrSessionClosed)
	case <-ctx.Done():
		return domain.ChatMessage{}, ctx.Err()
	}
}

func (s *Session) readLoop() {
	defer close(s.inbound)
	for {
		msg, err := s.transport.Recv()
		if err != nil {
			if !stderrors.Is(err, io.EOF) {
				err = errors.NewTransportError(s.id, "read", err)
			}
			select {
			case s.inbound <- inbound{err: err}:
			case <-s.done:
			}
			return
		}
		select {
		case s.inbound <- inbound{message: msg}:
		case <-s.done:
			return
		}
	}
}

// Send queues the envelope for this peer. It gives up when ctx is done,
// which is how a broadcast bounds the time spent on one stalled peer.
// A timeout fails the session like a write error: later sends return at once
// and the peer receives nothing more. Every failure is a TransportError that
// concerns this session only.
func (s *Session) Send(ctx context.Context, envelope domain.Envelope) error {
	select {
	case <-s.done:
		return errors.NewTransportError(s.id, "send", errors.ErrSessionClosed)
	case <-s.failed:
		return s.failure()
	default:
	}

	select {
	case s.outbox <- envelope:
		return nil
	case <-s.done:
		return errors.NewTransportError(s.id, "send", errors.ErrSessionClosed)
	case <-s.failed:
		return s.failure()
	case <-ctx.Done():
		err := errors.NewTransportError(s.id, "send", errors.ErrSendTimeout)
		s.fail(err)
		return s.failure()
	}
}

func (s *Session) writeLoop() {
	defer close(s.writerDone)
	for {
		select {
		case envelope := <-s.outbox:
			if !s.write(envelope) {
				return
			}
		case <-s.done:
			s.flush()
			return
		case <-s.failed:
			return
		}
	}
}

// flush writes what is already queued when the session closes.
func (s *Session) flush() {
	for {
		select {
		case envelope := <-s.outbox:
			if !s.write(envelope) {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) write(envelope domain.Envelope) bool {
	select {
	case <-s.failed:
		return false
	default:
	}
	if err := s.transport.Send(envelope); err != nil {
		s.fail(errors.NewTransportError(s.id, "write", err))
		return false
	}
	return true
}

func (s *Session) fail(err error) {
	s.failOnce.Do(func() {
		s.mu.Lock()
		s.writeErr = err
		s.mu.Unlock()
		close(s.failed)
		s.log.Warn("Outbound stream failed, peer no longer receives", "error", err)
	})
}

func (s *Session) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}

// Close releases the session. Queued envelopes get a best-effort flush,
// bounded by timeout so one wedged peer cannot hang its retirement.
func (s *Session) Close(timeout time.Duration) {
	s.closeOnce.Do(func() {
		s.setState(Closed)
		close(s.done)
	})

	select {
	case <-s.writerDone:
	case <-time.After(timeout):
		s.log.Warn("Outbound flush did not finish in time", "timeout", timeout)
	}
}
