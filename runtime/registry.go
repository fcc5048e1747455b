package runtime

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Membership is what a registry mutation observed, taken under the same lock.
type Membership struct {
	Members  []string
	Sessions []*Session
}

// Registry is the authoritative set of admitted sessions.
// A session is a member from the end of its Join until the start of its Leave.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session // session ID -> session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add inserts the session and returns the membership right after the insertion.
// It reports false without touching the registry if the session is already there.
func (r *Registry) Add(s *Session) (Membership, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID()]; ok {
		return r.membership(), false
	}
	r.sessions[s.ID()] = s
	return r.membership(), true
}

// Remove deletes the session and returns the membership right after the removal.
// It reports false if the session was not a member.
func (r *Registry) Remove(s *Session) (Membership, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID()]; !ok {
		return r.membership(), false
	}
	delete(r.sessions, s.ID())
	return r.membership(), true
}

func (r *Registry) Contains(s *Session) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[s.ID()]
	return ok
}

// Snapshot returns the current sessions. The slice is owned by the caller,
// so iterating it for network sends never holds the lock.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.sessions)
}

// Members returns the usernames of the current sessions sorted by name.
func (r *Registry) Members() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membership().Members
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// membership must be called with the lock held.
func (r *Registry) membership() Membership {
	sessions := lo.Values(r.sessions)
	members := lo.Map(sessions, func(s *Session, _ int) string { return s.Username() })
	slices.Sort(members)
	return Membership{Members: members, Sessions: sessions}
}
