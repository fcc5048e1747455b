package domain

import (
	"slices"
)

type PresenceKind int

const (
	Joined PresenceKind = iota + 1
	Left
)

func (k PresenceKind) String() string {
	switch k {
	case Joined:
		return "joined"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// PresenceNotice pairs a membership change with the membership it produced.
// CurrentMembers is sorted by name and was captured under the same lock
// as the mutation, so it always agrees with Kind and Username.
type PresenceNotice struct {
	Kind           PresenceKind
	Username       string
	CurrentMembers []string
}

func NewPresenceNotice(kind PresenceKind, username string, members []string) PresenceNotice {
	sorted := slices.Clone(members)
	slices.Sort(sorted)
	return PresenceNotice{Kind: kind, Username: username, CurrentMembers: sorted}
}
