package domain

import (
	"chat-relay/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		want     string
		wantErr  error
	}{
		{name: "plain", declared: "alice", want: "alice"},
		{name: "trimmed", declared: "  bob  ", want: "bob"},
		{name: "spaces inside", declared: "Alice Liddell", want: "Alice Liddell"},
		{name: "unicode", declared: "zoë", want: "zoë"},
		{name: "empty", declared: "", wantErr: errors.ErrMissingUsername},
		{name: "blank", declared: " \t ", wantErr: errors.ErrMissingUsername},
		{name: "too long", declared: "abcdefghijk", wantErr: errors.ErrInvalidUsername},
		{name: "control character", declared: "al\x07ice", wantErr: errors.ErrInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUsername(tt.declared, 10)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewPresenceNotice(t *testing.T) {
	req := require.New(t)
	members := []string{"zoe", "alice", "bob"}

	notice := NewPresenceNotice(Joined, "bob", members)

	req.Equal([]string{"alice", "bob", "zoe"}, notice.CurrentMembers)
	// The caller's slice is left untouched.
	req.Equal([]string{"zoe", "alice", "bob"}, members)
	req.Equal("joined", notice.Kind.String())
	req.Equal("presence", PresenceEnvelope(notice).Kind())
	req.Equal("message", MessageEnvelope(ChatMessage{Body: "hi"}).Kind())
	req.Equal("empty", Envelope{}.Kind())
}
