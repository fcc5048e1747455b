package repositories

import (
	pb "chat-relay/proto/storage"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPresenceRepository_Store_And_Page(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	repository := NewPresenceRepository(openTestDB(t), log, lo.ToPtr(2))
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Given five membership changes, oldest first
	for i := range 5 {
		req.NoError(repository.StorePresence(PresenceRecord{
			Kind:      JoinedKind,
			SessionID: fmt.Sprintf("session-%d", i),
			Username:  fmt.Sprintf("user-%d", i),
			Members:   []string{fmt.Sprintf("user-%d", i)},
			At:        base.Add(time.Duration(i) * time.Second),
		}))
	}

	// When the journal is read from the top
	page, cursor, err := repository.GetPresence(nil)
	req.NoError(err)

	// Then the newest records come first, within the limit
	req.Equal([]string{"user-4", "user-3"}, usernames(page))

	// When paging further back
	page, cursor, err = repository.GetPresence(cursor)
	req.NoError(err)
	req.Equal([]string{"user-2", "user-1"}, usernames(page))

	page, _, err = repository.GetPresence(cursor)
	req.NoError(err)
	req.Equal([]string{"user-0"}, usernames(page))
	req.True(page[0].At.Equal(base))
	req.Equal([]string{"user-0"}, page[0].Members)
}

func TestPresenceRepository_JoinAndLeave_SameInstant(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	repository := NewPresenceRepository(openTestDB(t), log, nil)
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Given a join and a leave recorded with the same timestamp
	req.NoError(repository.StorePresence(PresenceRecord{Kind: JoinedKind, SessionID: "s-1", Username: "alice", At: at}))
	req.NoError(repository.StorePresence(PresenceRecord{Kind: LeftKind, SessionID: "s-1", Username: "alice", At: at}))

	// Then neither overwrote the other
	records, _, err := repository.GetPresence(nil)
	req.NoError(err)
	req.Len(records, 2)
	req.ElementsMatch([]string{JoinedKind, LeftKind}, lo.Map(records, func(r PresenceRecord, _ int) string { return r.Kind }))
}

func TestPresenceRepository_Empty(t *testing.T) {
	req := require.New(t)
	repository := NewPresenceRepository(openTestDB(t), slog.Default(), nil)

	records, _, err := repository.GetPresence(nil)
	req.NoError(err)
	req.Empty(records)
}

func usernames(records []PresenceRecord) []string {
	return lo.Map(records, func(r PresenceRecord, _ int) string { return r.Username })
}

func TestPresenceRepository_StoresProtobufRecords(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewPresenceRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug), nil)
	at := time.Date(2026, 1, 1, 12, 0, 0, 7, time.UTC)

	// Given a stored join
	req.NoError(repository.StorePresence(PresenceRecord{
		Kind: JoinedKind, SessionID: "s-1", Username: "alice", Members: []string{"alice"}, At: at,
	}))

	// When the raw value is read back
	var raw []byte
	req.NoError(db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf("presence:%019d:s-1:joined", at.UnixNano())))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	}))

	// Then it is a storage.Presence in the protobuf wire format
	var presencePb pb.Presence
	req.NoError(presencePb.Unmarshal(raw))
	req.Equal(pb.Presence{
		Kind: JoinedKind, SessionId: "s-1", Username: "alice", Members: []string{"alice"}, At: at.UnixNano(),
	}, presencePb)
}
