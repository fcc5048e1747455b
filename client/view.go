package main

import (
	"chat-relay/domain"
	pb "chat-relay/proto/chat"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// View prints what the relay sends and remembers the last known members.
type View struct {
	mu      sync.Mutex
	out     io.Writer
	members []string
}

func NewView(out io.Writer) *View {
	return &View{out: out}
}

func (v *View) Render(msg *pb.ServerChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if st := msg.GetStatus(); st != nil {
		v.members = st.GetCurrentClients()
		fmt.Fprintln(v.out, statusLine(st))
		return
	}
	if m := msg.GetMessage(); m != nil {
		fmt.Fprintln(v.out, messageLine(m))
	}
}

// PrintMembers renders the member list of the last presence notice.
func (v *View) PrintMembers() {
	v.mu.Lock()
	defer v.mu.Unlock()

	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"#", "Online"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, name := range v.members {
		table.Append([]string{strconv.Itoa(i + 1), name})
	}
	table.Render()
}

func (v *View) Members() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.members
}

func statusLine(st *pb.Status) string {
	switch {
	case st.AddClient != nil:
		return fmt.Sprintf("*** %s joined (%d online)", st.GetAddClient(), len(st.GetCurrentClients()))
	case st.DeleteClient != nil:
		return fmt.Sprintf("*** %s left (%d online)", st.GetDeleteClient(), len(st.GetCurrentClients()))
	default:
		return fmt.Sprintf("*** online: %s", strings.Join(st.GetCurrentClients(), ", "))
	}
}

func messageLine(m *pb.ChatMessage) string {
	text := fmt.Sprintf("%s: %s", m.GetName(), m.GetMessage())
	font := m.GetFont()

	var opts []color.Color
	style := domain.FontStyle(font.GetStyle())
	if style.Has(domain.Bold) {
		opts = append(opts, color.OpBold)
	}
	if style.Has(domain.Italic) {
		opts = append(opts, color.OpItalic)
	}
	if style.Has(domain.Underline) {
		opts = append(opts, color.OpUnderscore)
	}
	if style.Has(domain.Strikeout) {
		opts = append(opts, color.OpStrikethrough)
	}
	if len(opts) > 0 {
		text = color.New(opts...).Sprint(text)
	}

	c := font.GetColor()
	if c == nil {
		return text
	}
	return color.RGB(channel(c.GetRed()), channel(c.GetGreen()), channel(c.GetBlue())).Sprint(text)
}

func channel(v int32) uint8 {
	return uint8(min(max(v, 0), 255))
}

// fontFromConfig builds the style attached to every outgoing message.
func fontFromConfig(config Config) (*pb.Font, error) {
	style, err := domain.ParseFontStyle(config.FontStyle)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	rgb, err := parseHexColor(config.Color)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return &pb.Font{
		Name:  config.FontName,
		Style: int32(style),
		Size:  float32(config.FontSize),
		Color: rgb,
	}, nil
}

func parseHexColor(s string) (*pb.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("color %q must look like #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("color %q must look like #RRGGBB: %w", s, err)
	}
	return &pb.Color{
		Red:   int32(v >> 16 & 0xFF),
		Green: int32(v >> 8 & 0xFF),
		Blue:  int32(v & 0xFF),
	}, nil
}
