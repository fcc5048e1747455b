package server

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	pb "chat-relay/proto/chat"
	"chat-relay/runtime"
	"context"
	"log/slog"

	"github.com/samber/lo"
	"google.golang.org/grpc/metadata"
)

// Hub is the part of runtime.Hub the gRPC front needs.
type Hub interface {
	Admit(transport contract.Transport, declared string) (*runtime.Session, error)
	RunSession(ctx context.Context, s *runtime.Session) error
}

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	hub Hub
	log *slog.Logger
}

func NewChatServer(log *slog.Logger, hub Hub) *ChatServer {
	return &ChatServer{hub: hub, log: log}
}

// ChatStream admits the caller from its "username" header, then hands the
// stream to the hub until the peer goes away.
// A refused caller receives "status: Error" headers and no frame at all.
func (s *ChatServer) ChatStream(stream pb.ChatService_ChatStreamServer) error {
	username := usernameFromContext(stream.Context())
	session, err := s.hub.Admit(NewStreamTransport(stream), username)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	return errors.MapToGRPCError(s.hub.RunSession(stream.Context(), session))
}

func usernameFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(pb.UsernameHeader)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// StreamTransport adapts the ChatStream RPC to contract.Transport.
type StreamTransport struct {
	stream pb.ChatService_ChatStreamServer
}

func NewStreamTransport(stream pb.ChatService_ChatStreamServer) *StreamTransport {
	return &StreamTransport{stream: stream}
}

func (t *StreamTransport) Context() context.Context { return t.stream.Context() }

func (t *StreamTransport) Acknowledge(sessionID string) error {
	return t.stream.SendHeader(metadata.Pairs(
		pb.StatusHeader, pb.StatusOK,
		pb.SessionIDHeader, sessionID,
	))
}

func (t *StreamTransport) Refuse(reason string) error {
	return t.stream.SendHeader(metadata.Pairs(
		pb.StatusHeader, pb.StatusError,
		pb.MessageHeader, reason,
	))
}

func (t *StreamTransport) Recv() (domain.ChatMessage, error) {
	msg, err := t.stream.Recv()
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return ToChatMessage(msg), nil
}

func (t *StreamTransport) Send(envelope domain.Envelope) error {
	return t.stream.Send(ToServerChatMessage(envelope))
}

func ToChatMessage(msg *pb.ChatMessage) domain.ChatMessage {
	font := msg.GetFont()
	color := font.GetColor()
	return domain.ChatMessage{
		SenderName: msg.GetName(),
		Body:       msg.GetMessage(),
		Style: domain.Style{
			Family: font.GetName(),
			Flags:  domain.FontStyle(font.GetStyle()),
			Size:   font.GetSize(),
			Color: domain.Color{
				Red:   color.GetRed(),
				Green: color.GetGreen(),
				Blue:  color.GetBlue(),
			},
		},
	}
}

func FromChatMessage(m domain.ChatMessage) *pb.ChatMessage {
	return &pb.ChatMessage{
		Name:    m.SenderName,
		Message: m.Body,
		Font: &pb.Font{
			Name:  m.Style.Family,
			Style: int32(m.Style.Flags),
			Size:  m.Style.Size,
			Color: &pb.Color{
				Red:   m.Style.Color.Red,
				Green: m.Style.Color.Green,
				Blue:  m.Style.Color.Blue,
			},
		},
	}
}

func ToServerChatMessage(envelope domain.Envelope) *pb.ServerChatMessage {
	switch {
	case envelope.Message != nil:
		return &pb.ServerChatMessage{Message: FromChatMessage(*envelope.Message)}
	case envelope.Presence != nil:
		return &pb.ServerChatMessage{Status: toStatus(*envelope.Presence)}
	default:
		return &pb.ServerChatMessage{}
	}
}

func toStatus(notice domain.PresenceNotice) *pb.Status {
	st := &pb.Status{CurrentClients: lo.Ternary(notice.CurrentMembers == nil, []string{}, notice.CurrentMembers)}
	switch notice.Kind {
	case domain.Joined:
		st.AddClient = lo.ToPtr(notice.Username)
	case domain.Left:
		st.DeleteClient = lo.ToPtr(notice.Username)
	}
	return st
}
