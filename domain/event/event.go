// Package event defines the lifecycle events the hub publishes for observers.
// Events describe what happened; they never carry message bodies.
package event

import (
	"time"
)

type Type string

const (
	SessionAdmittedType Type = "SESSION_ADMITTED"
	SessionRejectedType Type = "SESSION_REJECTED"
	MemberJoinedType    Type = "MEMBER_JOINED"
	MemberLeftType      Type = "MEMBER_LEFT"
	MessageRelayedType  Type = "MESSAGE_RELAYED"
	DeliveryFailedType  Type = "DELIVERY_FAILED"
)

type Event struct {
	Type    Type
	At      time.Time
	Payload any
}

func New(t Type, payload any) Event {
	return Event{Type: t, At: time.Now().UTC(), Payload: payload}
}

type SessionAdmitted struct {
	SessionID string
	Username  string
}

type SessionRejected struct {
	Username string
	Reason   string
}

type MemberJoined struct {
	SessionID string
	Username  string
	Members   []string
}

type MemberLeft struct {
	SessionID string
	Username  string
	Members   []string
}

type MessageRelayed struct {
	SessionID  string
	Username   string
	Recipients int
	Failed     int
	Duration   time.Duration
}

// DeliveryFailed is one destination's share of a partially failed broadcast.
type DeliveryFailed struct {
	SessionID string
	Username  string
	Envelope  string
	Err       error
}
