// Package storage holds the records persisted in BadgerDB, encoded with
// the field numbers of storage.proto.
package storage

import (
	"chat-relay/proto/wire"

	"google.golang.org/protobuf/encoding/protowire"
)

type Presence struct {
	Kind      string
	SessionId string
	Username  string
	Members   []string
	At        int64
}

func (p *Presence) Marshal() ([]byte, error) {
	var b []byte
	b = wire.AppendString(b, 1, p.Kind)
	b = wire.AppendString(b, 2, p.SessionId)
	b = wire.AppendString(b, 3, p.Username)
	for _, member := range p.Members {
		b = wire.AppendPresentString(b, 4, member)
	}
	return wire.AppendInt64(b, 5, p.At), nil
}

func (p *Presence) Unmarshal(b []byte) error {
	*p = Presence{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return wire.ConsumeString(b, &p.Kind)
		case num == 2 && typ == protowire.BytesType:
			return wire.ConsumeString(b, &p.SessionId)
		case num == 3 && typ == protowire.BytesType:
			return wire.ConsumeString(b, &p.Username)
		case num == 4 && typ == protowire.BytesType:
			var member string
			n, err := wire.ConsumeString(b, &member)
			if n >= 0 {
				p.Members = append(p.Members, member)
			}
			return n, err
		case num == 5 && typ == protowire.VarintType:
			return wire.ConsumeInt64(b, &p.At)
		default:
			return wire.Skip(num, typ, b)
		}
	})
}
