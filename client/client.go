package main

import (
	"bufio"
	pb "chat-relay/proto/chat"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
	exitRefused = 3
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string  `env:"CHAT_SERVER_ADDR,default=localhost:1337"`
	Username      string  `env:"CHAT_USERNAME,required=true"`
	FontName      string  `env:"CHAT_FONT,default=Monospace"`
	FontSize      float64 `env:"CHAT_FONT_SIZE,default=10"`
	FontStyle     string  `env:"CHAT_FONT_STYLE,default=regular"`
	Color         string  `env:"CHAT_COLOR,default=#000000"`
	LogLevel      string  `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the gRPC client lifecycle, configuration loading, and message streaming.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	font, err := fontFromConfig(config)
	if err != nil {
		return exitConfig, err
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish connection to the relay.
	conn, err := grpc.NewClient(config.ServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	// 4. Open the stream with the username header and wait for the handshake.
	ctx = metadata.AppendToOutgoingContext(ctx, pb.UsernameHeader, config.Username)
	stream, err := pb.NewChatServiceClient(conn).ChatStream(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}
	header, err := stream.Header()
	if err != nil {
		return exitRuntime, fmt.Errorf("handshake failed: %w", err)
	}
	if err := checkHandshake(header); err != nil {
		return exitRefused, err
	}
	log.Debug("Connected", "address", config.ServerAddress, "session_id", first(header.Get(pb.SessionIDHeader)))

	view := NewView(os.Stdout)

	// 5. Reception loop in the background, input loop in the foreground.
	recvErr := make(chan error, 1)
	go func() {
		for {
			resp, err := stream.Recv()
			if err != nil {
				recvErr <- err
				return
			}
			view.Render(resp)
		}
	}()

	lines := make(chan string)
	go scanLines(os.Stdin, lines)

	for {
		select {
		case <-ctx.Done():
			_ = stream.CloseSend()
			return exitOK, nil
		case err := <-recvErr:
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		case line, ok := <-lines:
			if !ok || line == "/quit" {
				_ = stream.CloseSend()
				return exitOK, nil
			}
			if line == "/who" {
				view.PrintMembers()
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := stream.Send(&pb.ChatMessage{Name: config.Username, Message: line, Font: font}); err != nil {
				return exitRuntime, fmt.Errorf("send failed: %w", err)
			}
		}
	}
}

func scanLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}

// checkHandshake turns the server's response headers into an error when refused.
func checkHandshake(header metadata.MD) error {
	switch first(header.Get(pb.StatusHeader)) {
	case pb.StatusOK:
		return nil
	case pb.StatusError:
		return fmt.Errorf("connection refused: %s", first(header.Get(pb.MessageHeader)))
	default:
		return fmt.Errorf("connection refused: missing handshake status")
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
