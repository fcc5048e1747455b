package main

import (
	"chat-relay/contract"
	grpcserver "chat-relay/infrastructure/grpc/server"
	"chat-relay/internal"
	"chat-relay/observability"
	pb "chat-relay/proto/chat"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/sink"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every defer (journal close, listener close) run.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Observers of the hub lifecycle
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)
	sinks := []contract.EventSink{sink.NewLogSink(log), sink.NewMetricsSink(metrics)}

	if config.JournalFilepath != "" {
		db, err := badger.Open(badger.DefaultOptions(config.JournalFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("journal opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing presence journal...")
			_ = db.Close()
		}()
		sinks = append(sinks, sink.NewJournalSink(repositories.NewPresenceRepository(db, log, config.LimitJournal)))
	}

	// 3. Hub
	hub := runtime.NewHub(log, runtime.NewRegistry(), runtime.HubConfig{
		SendTimeout:       config.SendTimeout,
		CloseTimeout:      config.CloseTimeout,
		OutboxSize:        config.OutboxSize,
		EventBufferSize:   config.EventBufferSize,
		MaxUsernameLength: config.MaxUsernameLength,
		MaxMessageLength:  config.MaxMessageLength,
		EchoToSender:      config.EchoToSender,
	})

	// 4. Supervised background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewLifecycleFanout(log, hub.Events(), config.SinkTimeout, sinks...),
		workers.NewChannelCapacityWorker(log, metrics.ChannelLength, metrics.ChannelCapacity, config.MetricInterval,
			workers.NamedChannel{Name: "lifecycle_events", Channel: hub.Events()}),
	)
	if config.MetricsPort > 0 {
		sup.Add(workers.NewMetricsServer(log, config.MetricsPort, registry))
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 6. gRPC Server Setup
	listener, err := net.Listen("tcp", config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Address(), err)
	}

	s := grpc.NewServer()
	pb.RegisterChatServiceServer(s, grpcserver.NewChatServer(log, hub))

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gRPC server", "address", config.Address(), "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		sup.Stop()
		return err
	}

	// 8. Final Cleanup: sessions first, then the transport, then the workers.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := hub.Shutdown(shutdownCtx); err != nil {
		log.Warn("Some sessions did not close in time", "error", err)
	}
	stopServer(shutdownCtx, s)
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}

// stopServer waits for in-flight streams, then forces the rest when ctx expires.
func stopServer(ctx context.Context, s *grpc.Server) {
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.Stop()
	}
}
