package test

import (
	"chat-relay/contract"
	grpcserver "chat-relay/infrastructure/grpc/server"
	"chat-relay/observability"
	pb "chat-relay/proto/chat"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/sink"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func Test_Scenario(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)

	// 1. Hub and its observers, wired as the server does it
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := prometheus.NewRegistry()
	journal := repositories.NewPresenceRepository(db, log, lo.ToPtr(100))
	sinks := []contract.EventSink{
		sink.NewLogSink(log),
		sink.NewMetricsSink(observability.NewMetrics(registry)),
		sink.NewJournalSink(journal),
	}
	hub := runtime.NewHub(log, runtime.NewRegistry(), runtime.HubConfig{
		SendTimeout:     time.Second,
		CloseTimeout:    time.Second,
		OutboxSize:      16,
		EventBufferSize: 64,
		EchoToSender:    true,
	})
	supervisor := workers.NewSupervisor(log, 50*time.Millisecond)
	supervisor.Add(workers.NewLifecycleFanout(log, hub.Events(), time.Second, sinks...))
	supDone := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(supDone)
	}()

	// 2. gRPC front on an in-memory listener
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	pb.RegisterChatServiceServer(server, grpcserver.NewChatServer(log, hub))
	go func() { _ = server.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	req.NoError(err)
	client := pb.NewChatServiceClient(conn)

	// Clean everything at the end of the test
	t.Cleanup(func() {
		_ = conn.Close()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancelShutdown()
		_ = hub.Shutdown(shutdownCtx)
		server.Stop()
		supervisor.Stop()
		<-supDone
		_ = db.Close()
	})

	open := func(username string) pb.ChatService_ChatStreamClient {
		streamCtx := metadata.AppendToOutgoingContext(ctx, pb.UsernameHeader, username)
		stream, err := client.ChatStream(streamCtx)
		req.NoError(err)
		header, err := stream.Header()
		req.NoError(err)
		req.Equal([]string{pb.StatusOK}, header.Get(pb.StatusHeader))
		return stream
	}

	// Given alice then bob join
	alice := open("alice")
	_, err = alice.Recv()
	req.NoError(err)
	bob := open("bob")
	_, err = bob.Recv()
	req.NoError(err)
	_, err = alice.Recv()
	req.NoError(err)

	// When bob talks, then leaves
	req.NoError(bob.Send(&pb.ChatMessage{Message: "this message will self destruct in 5 seconds"}))
	for _, stream := range []pb.ChatService_ChatStreamClient{alice, bob} {
		resp, err := stream.Recv()
		req.NoError(err)
		req.Equal("bob", resp.GetMessage().GetName())
	}
	req.NoError(bob.CloseSend())

	resp, err := alice.Recv()
	req.NoError(err)
	req.Equal("bob", resp.GetStatus().GetDeleteClient())

	// Then the journal holds every membership change, newest first, and no message
	req.Eventually(func() bool {
		records, _, err := journal.GetPresence(nil)
		return err == nil && len(records) == 3
	}, 2*time.Second, 10*time.Millisecond)

	records, _, err := journal.GetPresence(nil)
	req.NoError(err)
	req.Equal(repositories.LeftKind, records[0].Kind)
	req.Equal("bob", records[0].Username)
	req.Equal([]string{"alice"}, records[0].Members)
	req.Equal(repositories.JoinedKind, records[1].Kind)
	req.Equal([]string{"alice", "bob"}, records[1].Members)
	req.Equal("alice", records[2].Username)

	// Then the metrics saw one relayed message
	req.Eventually(func() bool {
		families, err := registry.Gather()
		if err != nil {
			return false
		}
		for _, family := range families {
			if family.GetName() == "chat_messages_relayed_total" {
				return family.GetMetric()[0].GetCounter().GetValue() == 1
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}
