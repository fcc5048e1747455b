package errors

import (
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrMissingUsername = fmt.Errorf("username is missing")
	ErrInvalidUsername = fmt.Errorf("username is invalid")
	ErrInvalidMessage  = fmt.Errorf("chat message is invalid")
	ErrSessionClosed   = fmt.Errorf("session is closed")
	ErrShuttingDown    = fmt.Errorf("server is shutting down")
	ErrSendTimeout     = fmt.Errorf("send timed out")
	ErrTransport       = fmt.Errorf("transport failure")
)

// AdmissionError is returned when a peer is refused before joining the hub.
// Reason is what the peer gets back in its handshake headers.
type AdmissionError struct {
	Reason string
	Err    error
}

func NewAdmissionError(err error, reason string) *AdmissionError {
	return &AdmissionError{Reason: reason, Err: err}
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("admission refused: %s", e.Reason)
}

func (e *AdmissionError) Unwrap() error { return e.Err }

// TransportError ties a read or write failure to the session it happened on.
type TransportError struct {
	SessionID string
	Op        string
	Err       error
}

func NewTransportError(sessionID, op string, err error) *TransportError {
	return &TransportError{SessionID: sessionID, Op: op, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap exposes both ErrTransport and the cause to errors.Is.
func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// MapToGRPCError translates domain errors into gRPC status errors.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var admission *AdmissionError
	switch {
	case stderrors.Is(err, ErrShuttingDown):
		return status.Error(codes.Unavailable, ErrShuttingDown.Error())
	case stderrors.As(err, &admission):
		return status.Error(codes.InvalidArgument, admission.Reason)
	case stderrors.Is(err, ErrMissingUsername), stderrors.Is(err, ErrInvalidUsername),
		stderrors.Is(err, ErrInvalidMessage):
		return status.Error(codes.InvalidArgument, err.Error())
	case stderrors.Is(err, ErrSessionClosed):
		return status.Error(codes.Canceled, err.Error())
	case stderrors.Is(err, ErrSendTimeout):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case stderrors.Is(err, ErrTransport):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
