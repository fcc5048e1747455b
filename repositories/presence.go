//go:generate go run go.uber.org/mock/mockgen -source=presence.go -destination=../mocks/mock_presence_repository.go -package=mocks
package repositories

import (
	pb "chat-relay/proto/storage"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const (
	JoinedKind = "joined"
	LeftKind   = "left"

	presencePrefix = "presence:"
)

type IPresenceRepository interface {
	StorePresence(record PresenceRecord) error
	GetPresence(cursor *string) ([]PresenceRecord, *string, error)
}

// PresenceRecord is one membership change of the journal.
type PresenceRecord struct {
	Kind      string
	SessionID string
	Username  string
	Members   []string
	At        time.Time
}

type PresenceRepository struct {
	db           *badger.DB
	log          *slog.Logger
	limitRecords *int
}

func NewPresenceRepository(db *badger.DB, log *slog.Logger, limitRecords *int) PresenceRepository {
	return PresenceRepository{db: db, log: log, limitRecords: limitRecords}
}

// StorePresence persists a record in BadgerDB.
// The key is formatted as "presence:{timestamp_padded}:{session_id}:{kind}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Keep the join and the leave of one session apart even within the same nanosecond.
func (p PresenceRepository) StorePresence(record PresenceRecord) error {
	key := fmt.Sprintf("%s%019d:%s:%s", presencePrefix, record.At.UnixNano(), record.SessionID, record.Kind)
	bytes, err := lo.ToPtr(fromPresenceRecord(record)).Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode presence record: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetPresence returns records newest first, starting after cursor when given.
// It stops once the configured limit is reached and returns the cursor of the
// last record so the caller can page further back.
func (p PresenceRepository) GetPresence(cursor *string) ([]PresenceRecord, *string, error) {
	var bytePresences [][]byte
	var records []PresenceRecord
	var lastKey string
	prefix := []byte(presencePrefix)

	err := p.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start past the newest possible key and walk back.
			seekKey = append([]byte(presencePrefix), 0xFF)
		default:
			seekKey = append([]byte(presencePrefix), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[len(prefix):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if p.limitRecords != nil && len(bytePresences) == *p.limitRecords {
				p.log.Debug(fmt.Sprintf("Maximum of %d presence records reached", *p.limitRecords))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			bytePresences = append(bytePresences, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, b := range bytePresences {
		var presencePb pb.Presence
		if err = presencePb.Unmarshal(b); err != nil {
			return nil, nil, fmt.Errorf("failed to decode presence record: %w", err)
		}
		records = append(records, toPresenceRecord(&presencePb))
	}
	return records, &lastKey, nil
}

func fromPresenceRecord(record PresenceRecord) pb.Presence {
	return pb.Presence{
		Kind:      record.Kind,
		SessionId: record.SessionID,
		Username:  record.Username,
		Members:   record.Members,
		At:        record.At.UnixNano(),
	}
}

func toPresenceRecord(presencePb *pb.Presence) PresenceRecord {
	return PresenceRecord{
		Kind:      presencePb.Kind,
		SessionID: presencePb.SessionId,
		Username:  presencePb.Username,
		Members:   presencePb.Members,
		At:        time.Unix(0, presencePb.At),
	}
}
