package runtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestSession(username string) *Session {
	return &Session{id: uuid.NewString(), username: username}
}

func TestRegistry_Add_One_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := newTestSession("alice")

	// Given nobody is connected
	req.Zero(registry.Len())

	// When a session is added
	membership, added := registry.Add(alice)

	// Then
	req.True(added)
	req.Equal([]string{"alice"}, membership.Members)
	req.Equal([]*Session{alice}, membership.Sessions)
	req.True(registry.Contains(alice))
}

func TestRegistry_Add_Twice(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := newTestSession("alice")

	registry.Add(alice)

	// When the same session is added again
	membership, added := registry.Add(alice)

	// Then nothing changes
	req.False(added)
	req.Equal([]string{"alice"}, membership.Members)
	req.Equal(1, registry.Len())
}

func TestRegistry_Members_Sorted_With_Duplicates(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given names are display names only
	registry.Add(newTestSession("zoe"))
	registry.Add(newTestSession("bob"))
	registry.Add(newTestSession("bob"))

	// Then both bobs are listed, sorted by name
	req.Equal([]string{"bob", "bob", "zoe"}, registry.Members())
	req.Len(registry.Snapshot(), 3)
}

func TestRegistry_Remove(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := newTestSession("alice")
	bob := newTestSession("bob")
	registry.Add(alice)
	registry.Add(bob)

	// When a member is removed
	membership, removed := registry.Remove(bob)

	// Then the membership no longer holds it
	req.True(removed)
	req.Equal([]string{"alice"}, membership.Members)
	req.Equal([]*Session{alice}, membership.Sessions)
	req.False(registry.Contains(bob))

	// When it is removed again
	_, removed = registry.Remove(bob)
	req.False(removed)
}

func TestRegistry_Snapshot_Is_Owned_By_Caller(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := newTestSession("alice")
	registry.Add(alice)

	snapshot := registry.Snapshot()

	// When the registry changes afterwards
	registry.Add(newTestSession("bob"))
	registry.Remove(alice)

	// Then the snapshot is unaffected
	req.Equal([]*Session{alice}, snapshot)
}

func TestRegistry_Concurrent_Access(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := newTestSession(fmt.Sprintf("user-%d", i))
			membership, added := registry.Add(s)
			if !added {
				return
			}
			// The membership observed by Add always contains the new session.
			if !contains(membership.Sessions, s) {
				t.Errorf("membership misses %s", s.Username())
			}
			_ = registry.Members()
			_ = registry.Snapshot()
			membership, _ = registry.Remove(s)
			if contains(membership.Sessions, s) {
				t.Errorf("membership still holds %s", s.Username())
			}
		}(i)
	}
	wg.Wait()

	req.Zero(registry.Len())
}

func contains(sessions []*Session, s *Session) bool {
	for _, candidate := range sessions {
		if candidate == s {
			return true
		}
	}
	return false
}
