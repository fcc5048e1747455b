package domain

// Envelope is the single unit delivered to sessions.
// Exactly one of Message or Presence is set.
type Envelope struct {
	Message  *ChatMessage
	Presence *PresenceNotice
}

func MessageEnvelope(m ChatMessage) Envelope {
	return Envelope{Message: &m}
}

func PresenceEnvelope(p PresenceNotice) Envelope {
	return Envelope{Presence: &p}
}

func (e Envelope) IsPresence() bool { return e.Presence != nil }

// Kind names the payload for logs and metric labels.
func (e Envelope) Kind() string {
	switch {
	case e.Message != nil:
		return "message"
	case e.Presence != nil:
		return "presence"
	default:
		return "empty"
	}
}
