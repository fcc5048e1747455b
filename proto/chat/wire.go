package chat

import (
	"chat-relay/proto/wire"

	"google.golang.org/protobuf/encoding/protowire"
)

func (c *Color) Marshal() ([]byte, error) {
	return c.appendWire(nil), nil
}

func (c *Color) Unmarshal(b []byte) error {
	*c = Color{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			return wire.ConsumeInt32(b, &c.Red)
		case num == 2 && typ == protowire.VarintType:
			return wire.ConsumeInt32(b, &c.Green)
		case num == 3 && typ == protowire.VarintType:
			return wire.ConsumeInt32(b, &c.Blue)
		default:
			return wire.Skip(num, typ, b)
		}
	})
}

func (c *Color) appendWire(b []byte) []byte {
	b = wire.AppendInt32(b, 1, c.GetRed())
	b = wire.AppendInt32(b, 2, c.GetGreen())
	return wire.AppendInt32(b, 3, c.GetBlue())
}

func (f *Font) Marshal() ([]byte, error) {
	return f.appendWire(nil), nil
}

func (f *Font) Unmarshal(b []byte) error {
	*f = Font{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return wire.ConsumeString(b, &f.Name)
		case num == 2 && typ == protowire.VarintType:
			return wire.ConsumeInt32(b, &f.Style)
		case num == 3 && typ == protowire.Fixed32Type:
			return wire.ConsumeFloat(b, &f.Size)
		case num == 4 && typ == protowire.BytesType:
			f.Color = &Color{}
			return wire.ConsumeMessageField(b, f.Color.Unmarshal)
		default:
			return wire.Skip(num, typ, b)
		}
	})
}

func (f *Font) appendWire(b []byte) []byte {
	b = wire.AppendString(b, 1, f.GetName())
	b = wire.AppendInt32(b, 2, f.GetStyle())
	b = wire.AppendFloat(b, 3, f.GetSize())
	if color := f.GetColor(); color != nil {
		b = wire.AppendMessage(b, 4, color.appendWire(nil))
	}
	return b
}

func (m *ChatMessage) Marshal() ([]byte, error) {
	return m.appendWire(nil), nil
}

func (m *ChatMessage) Unmarshal(b []byte) error {
	*m = ChatMessage{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return wire.ConsumeString(b, &m.Name)
		case num == 2 && typ == protowire.BytesType:
			return wire.ConsumeString(b, &m.Message)
		case num == 3 && typ == protowire.BytesType:
			m.Font = &Font{}
			return wire.ConsumeMessageField(b, m.Font.Unmarshal)
		default:
			return wire.Skip(num, typ, b)
		}
	})
}

func (m *ChatMessage) appendWire(b []byte) []byte {
	b = wire.AppendString(b, 1, m.GetName())
	b = wire.AppendString(b, 2, m.GetMessage())
	if font := m.GetFont(); font != nil {
		b = wire.AppendMessage(b, 3, font.appendWire(nil))
	}
	return b
}

func (s *Status) Marshal() ([]byte, error) {
	return s.appendWire(nil), nil
}

func (s *Status) Unmarshal(b []byte) error {
	*s = Status{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			s.AddClient = new(string)
			return wire.ConsumeString(b, s.AddClient)
		case num == 2 && typ == protowire.BytesType:
			s.DeleteClient = new(string)
			return wire.ConsumeString(b, s.DeleteClient)
		case num == 3 && typ == protowire.BytesType:
			var client string
			n, err := wire.ConsumeString(b, &client)
			if n >= 0 {
				s.CurrentClients = append(s.CurrentClients, client)
			}
			return n, err
		default:
			return wire.Skip(num, typ, b)
		}
	})
}

func (s *Status) appendWire(b []byte) []byte {
	if s == nil {
		return b
	}
	if s.AddClient != nil {
		b = wire.AppendPresentString(b, 1, *s.AddClient)
	}
	if s.DeleteClient != nil {
		b = wire.AppendPresentString(b, 2, *s.DeleteClient)
	}
	for _, client := range s.CurrentClients {
		b = wire.AppendPresentString(b, 3, client)
	}
	return b
}

func (m *ServerChatMessage) Marshal() ([]byte, error) {
	return m.appendWire(nil), nil
}

// Unmarshal keeps only the last payload seen, as a oneof does.
func (m *ServerChatMessage) Unmarshal(b []byte) error {
	*m = ServerChatMessage{}
	return wire.ConsumeMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			m.Message, m.Status = &ChatMessage{}, nil
			return wire.ConsumeMessageField(b, m.Message.Unmarshal)
		case num == 2 && typ == protowire.BytesType:
			m.Message, m.Status = nil, &Status{}
			return wire.ConsumeMessageField(b, m.Status.Unmarshal)
		default:
			return wire.Skip(num, typ, b)
		}
	})
}

func (m *ServerChatMessage) appendWire(b []byte) []byte {
	switch {
	case m.GetMessage() != nil:
		return wire.AppendMessage(b, 1, m.Message.appendWire(nil))
	case m.GetStatus() != nil:
		return wire.AppendMessage(b, 2, m.Status.appendWire(nil))
	default:
		return b
	}
}
