// Package chat holds the wire types and service bindings of chat.proto.
//
// Each type encodes itself with protowire using the field numbers of
// chat.proto, see wire.go. The codec in codec.go serves them as "proto".
package chat

type Color struct {
	Red   int32
	Green int32
	Blue  int32
}

func (c *Color) GetRed() int32 {
	if c == nil {
		return 0
	}
	return c.Red
}

func (c *Color) GetGreen() int32 {
	if c == nil {
		return 0
	}
	return c.Green
}

func (c *Color) GetBlue() int32 {
	if c == nil {
		return 0
	}
	return c.Blue
}

type Font struct {
	Name  string
	Style int32
	Size  float32
	Color *Color
}

func (f *Font) GetName() string {
	if f == nil {
		return ""
	}
	return f.Name
}

func (f *Font) GetStyle() int32 {
	if f == nil {
		return 0
	}
	return f.Style
}

func (f *Font) GetSize() float32 {
	if f == nil {
		return 0
	}
	return f.Size
}

func (f *Font) GetColor() *Color {
	if f == nil {
		return nil
	}
	return f.Color
}

type ChatMessage struct {
	Name    string
	Message string
	Font    *Font
}

func (m *ChatMessage) GetName() string {
	if m == nil {
		return ""
	}
	return m.Name
}

func (m *ChatMessage) GetMessage() string {
	if m == nil {
		return ""
	}
	return m.Message
}

func (m *ChatMessage) GetFont() *Font {
	if m == nil {
		return nil
	}
	return m.Font
}

type Status struct {
	AddClient      *string
	DeleteClient   *string
	CurrentClients []string
}

func (s *Status) GetAddClient() string {
	if s == nil || s.AddClient == nil {
		return ""
	}
	return *s.AddClient
}

func (s *Status) GetDeleteClient() string {
	if s == nil || s.DeleteClient == nil {
		return ""
	}
	return *s.DeleteClient
}

func (s *Status) GetCurrentClients() []string {
	if s == nil {
		return nil
	}
	return s.CurrentClients
}

// ServerChatMessage carries either a relayed Message or a Status, never both.
type ServerChatMessage struct {
	Message *ChatMessage
	Status  *Status
}

func (m *ServerChatMessage) GetMessage() *ChatMessage {
	if m == nil {
		return nil
	}
	return m.Message
}

func (m *ServerChatMessage) GetStatus() *Status {
	if m == nil {
		return nil
	}
	return m.Status
}
