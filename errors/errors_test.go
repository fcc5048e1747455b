package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapToGRPCError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "admission", err: NewAdmissionError(ErrMissingUsername, "You must enter a username"), want: codes.InvalidArgument},
		{name: "invalid message", err: fmt.Errorf("%w: body is blank", ErrInvalidMessage), want: codes.InvalidArgument},
		{name: "session closed", err: ErrSessionClosed, want: codes.Canceled},
		{name: "shutting down", err: NewAdmissionError(ErrShuttingDown, "server is shutting down"), want: codes.Unavailable},
		{name: "send timeout", err: NewTransportError("s-1", "send", ErrSendTimeout), want: codes.DeadlineExceeded},
		{name: "transport", err: NewTransportError("s-1", "write", fmt.Errorf("broken pipe")), want: codes.Unavailable},
		{name: "status kept", err: status.Error(codes.PermissionDenied, "no"), want: codes.PermissionDenied},
		{name: "unknown", err: context.DeadlineExceeded, want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, status.Code(MapToGRPCError(tt.err)))
		})
	}
	require.NoError(t, MapToGRPCError(nil))
}

func TestAdmissionError_Reason(t *testing.T) {
	req := require.New(t)
	err := MapToGRPCError(NewAdmissionError(ErrMissingUsername, "You must enter a username"))

	st, ok := status.FromError(err)
	req.True(ok)
	req.Equal("You must enter a username", st.Message())
}

func TestTransportError_Unwrap(t *testing.T) {
	req := require.New(t)
	cause := fmt.Errorf("connection reset")
	err := fmt.Errorf("relay: %w", NewTransportError("s-1", "write", cause))

	req.ErrorIs(err, ErrTransport)
	req.ErrorIs(err, cause)
	req.Contains(err.Error(), "session s-1: write: connection reset")
}
