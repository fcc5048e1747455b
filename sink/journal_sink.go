package sink

import (
	"chat-relay/domain/event"
	"chat-relay/repositories"
	"context"
)

// JournalSink records joins and leaves in the presence journal.
// Message bodies are never written.
type JournalSink struct {
	repository repositories.IPresenceRepository
}

func NewJournalSink(repository repositories.IPresenceRepository) JournalSink {
	return JournalSink{repository: repository}
}

func (j JournalSink) Consume(ctx context.Context, e event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch payload := e.Payload.(type) {
	case event.MemberJoined:
		return j.repository.StorePresence(toRecord(repositories.JoinedKind, payload.SessionID, payload.Username, payload.Members, e))
	case event.MemberLeft:
		return j.repository.StorePresence(toRecord(repositories.LeftKind, payload.SessionID, payload.Username, payload.Members, e))
	default:
		return nil
	}
}

func toRecord(kind, sessionID, username string, members []string, e event.Event) repositories.PresenceRecord {
	return repositories.PresenceRecord{
		Kind:      kind,
		SessionID: sessionID,
		Username:  username,
		Members:   members,
		At:        e.At,
	}
}
