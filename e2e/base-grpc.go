package e2e

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "chat-relay/proto/chat"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("CHAT_SERVER_ADDR is not set, skipping end-to-end suite")
	}
}

// GrpcConn initializes a gRPC connection with logging, colors, and JSON debugging
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string, addr string) *grpc.ClientConn {
	// 1. Print a colorized header for the connection step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	// 2. Create the client with a Stream Interceptor for logging
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStreamInterceptor(func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
			start := time.Now()
			stream, err := streamer(ctx, desc, cc, method, opts...)
			t.Logf("GRPC %s [%s] opened in %v", method, status.Code(err), time.Since(start))
			if err != nil {
				return nil, err
			}
			return &loggingStream{ClientStream: stream, t: t, debugFrames: s.Config.DebugFrames}, nil
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

// WithChat opens a chat stream as username within a contextual test step.
// fn gets the handshake headers along with the stream.
func (s *BaseGrpcSuite) WithChat(name, username string, fn func(ctx context.Context, stream pb.ChatService_ChatStreamClient, header metadata.MD)) {
	conn := s.GrpcConn(s.T(), name, s.Config.ServerAddr)
	defer conn.Close()

	client := pb.NewChatServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if username != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, pb.UsernameHeader, username)
	}
	stream, err := client.ChatStream(ctx)
	s.Require().NoError(err)
	header, err := stream.Header()
	s.Require().NoError(err)

	fn(ctx, stream, header)
}

// loggingStream dumps frames when E2E_DEBUG_FRAMES is enabled.
type loggingStream struct {
	grpc.ClientStream
	t         *testing.T
	debugFrames bool
}

func (l *loggingStream) SendMsg(m any) error {
	err := l.ClientStream.SendMsg(m)
	l.dump("SENT", m, err)
	return err
}

func (l *loggingStream) RecvMsg(m any) error {
	err := l.ClientStream.RecvMsg(m)
	l.dump("RECEIVED", m, err)
	return err
}

func (l *loggingStream) dump(direction string, m any, err error) {
	if !l.debugFrames {
		return
	}
	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "%s:\n", direction)
	if err != nil {
		fmt.Fprintln(&logBuilder, "ERROR:", err)
	} else {
		fmt.Fprintln(&logBuilder, frameOf(m))
	}
	l.t.Log(logBuilder.String())
}

// frameOf renders a frame with its nested messages by value.
func frameOf(m any) string {
	switch frame := m.(type) {
	case *pb.ChatMessage:
		font := frame.GetFont()
		return fmt.Sprintf("message{name:%q message:%q font:%q style:%d size:%v color:%+v}",
			frame.GetName(), frame.GetMessage(), font.GetName(), font.GetStyle(), font.GetSize(), lo.FromPtr(font.GetColor()))
	case *pb.ServerChatMessage:
		if status := frame.GetStatus(); status != nil {
			return fmt.Sprintf("status{add:%q delete:%q clients:%v}",
				status.GetAddClient(), status.GetDeleteClient(), status.GetCurrentClients())
		}
		return frameOf(frame.GetMessage())
	default:
		return fmt.Sprintf("%+v", m)
	}
}
