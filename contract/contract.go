//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Transport is one peer's duplex channel as a Session sees it.
// Recv and Send may be called from two different goroutines,
// but each of them from a single goroutine only.
type Transport interface {
	Context() context.Context
	// Acknowledge completes a successful handshake before any frame flows.
	Acknowledge(sessionID string) error
	// Refuse completes a failed handshake; no frame follows it.
	Refuse(reason string) error
	Recv() (domain.ChatMessage, error)
	Send(envelope domain.Envelope) error
}

// EventSink observes hub lifecycle events.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}
