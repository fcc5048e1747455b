package runtime

import (
	"chat-relay/domain"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// fakeTransport is an in-memory peer: the test feeds incoming and
// inspects what the session wrote.
type fakeTransport struct {
	ctx      context.Context
	cancel   context.CancelFunc
	incoming chan domain.ChatMessage
	block    chan struct{}
	sendErr  error

	mu      sync.Mutex
	sent    []domain.Envelope
	sends   int
	acked   string
	refused string
	closeIn sync.Once
}

func newFakeTransport(t *testing.T) *fakeTransport {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &fakeTransport{ctx: ctx, cancel: cancel, incoming: make(chan domain.ChatMessage, 16)}
}

func (f *fakeTransport) Context() context.Context { return f.ctx }

func (f *fakeTransport) Acknowledge(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = sessionID
	return nil
}

func (f *fakeTransport) Refuse(reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refused = reason
	return nil
}

func (f *fakeTransport) Recv() (domain.ChatMessage, error) {
	select {
	case msg, ok := <-f.incoming:
		if !ok {
			return domain.ChatMessage{}, io.EOF
		}
		return msg, nil
	case <-f.ctx.Done():
		return domain.ChatMessage{}, f.ctx.Err()
	}
}

func (f *fakeTransport) Send(envelope domain.Envelope) error {
	f.mu.Lock()
	f.sends++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-f.ctx.Done():
			return f.ctx.Err()
		}
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, envelope)
	return nil
}

// hangUp ends the peer's inbound stream.
func (f *fakeTransport) hangUp() {
	f.closeIn.Do(func() { close(f.incoming) })
}

func (f *fakeTransport) say(body string) {
	f.incoming <- domain.ChatMessage{Body: body}
}

func (f *fakeTransport) envelopes() []domain.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Envelope(nil), f.sent...)
}

func (f *fakeTransport) sendCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends
}

func (f *fakeTransport) waitFor(t *testing.T, n int) []domain.Envelope {
	t.Helper()
	require.Eventually(t, func() bool { return len(f.envelopes()) >= n }, 2*time.Second, 5*time.Millisecond,
		"expected at least %d envelopes", n)
	return f.envelopes()
}

func messages(envelopes []domain.Envelope) []string {
	var bodies []string
	for _, e := range envelopes {
		if e.Message != nil {
			bodies = append(bodies, e.Message.Body)
		}
	}
	return bodies
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func newTestHub(config HubConfig) *Hub {
	if config.OutboxSize == 0 {
		config.OutboxSize = 16
	}
	if config.EventBufferSize == 0 {
		config.EventBufferSize = 256
	}
	return NewHub(testLogger(), NewRegistry(), config)
}

// connect admits a peer and runs its session in the background.
// The returned channel yields RunSession's result.
func connect(t *testing.T, hub *Hub, name string) (*Session, *fakeTransport, <-chan error) {
	t.Helper()
	ft := newFakeTransport(t)
	s, err := hub.Admit(ft, name)
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- hub.RunSession(context.Background(), s) }()
	return s, ft, done
}
