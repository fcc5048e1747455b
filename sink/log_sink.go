package sink

import (
	"chat-relay/domain/event"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogSink writes a console line per lifecycle event.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (l LogSink) Consume(ctx context.Context, e event.Event) error {
	switch payload := e.Payload.(type) {
	case event.SessionAdmitted:
		l.log.InfoContext(ctx, fmt.Sprintf("%s connected", payload.Username), "session_id", payload.SessionID)
	case event.SessionRejected:
		l.log.InfoContext(ctx, "Connection refused", "declared_username", payload.Username, "reason", payload.Reason)
	case event.MemberJoined:
		l.log.InfoContext(ctx, fmt.Sprintf("%s joined", payload.Username),
			"session_id", payload.SessionID, "members", strings.Join(payload.Members, ","))
	case event.MemberLeft:
		l.log.InfoContext(ctx, fmt.Sprintf("%s left", payload.Username),
			"session_id", payload.SessionID, "members", strings.Join(payload.Members, ","))
	case event.MessageRelayed:
		l.log.DebugContext(ctx, "Message relayed",
			"session_id", payload.SessionID,
			"username", payload.Username,
			"recipients", payload.Recipients,
			"failed", payload.Failed,
			"duration", payload.Duration)
	case event.DeliveryFailed:
		l.log.DebugContext(ctx, "Delivery failed",
			"session_id", payload.SessionID, "username", payload.Username, "error", payload.Err)
	default:
		l.log.DebugContext(ctx, fmt.Sprintf("Not implemented event : %v", e.Type))
	}
	return nil
}
