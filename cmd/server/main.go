package main

import (
	"context"
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/infrastructure/grpc/server"
	"direct-chat/internal"
	"direct-chat/moderation"
	"direct-chat/observability"
	pbaccount "direct-chat/proto/account"
	pb "direct-chat/proto/chat"
	"direct-chat/repositories"
	"direct-chat/runtime"
	"direct-chat/runtime/workers"
	"direct-chat/services"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and owns the server lifecycle, so deferred
// cleanups always execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage: Badger for records, Bluge for the search index
	db, err := badger.Open(buildBadgerOpts(ctx, config, logger))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, repositories.InspectRecord)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	tokens, err := auth.NewTokenService([]byte(config.JWTSecret), config.AuthTokenDuration)
	if err != nil {
		return exitConfig, err
	}

	// 3. Core: registry, dispatcher and the supervised broadcast fan-out
	registry := runtime.NewRegistry()
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(promRegistry, registry.ConnectionCount)

	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger)
	searchIndex := repositories.NewSearchIndex(blugeWriter, logger)

	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	filter, err := moderation.NewFilter(config.BlockedWords(), replacement)
	if err != nil {
		return exitConfig, fmt.Errorf("moderation filter failed: %w", err)
	}

	broadcast := make(chan domain.Delivery, config.BroadcastBufferSize)
	dispatcher := runtime.NewDispatcher(logger, userRepository, messageRepository, registry, broadcast, metrics,
		runtime.DispatcherConfig{
			MaxMessageLength: config.MaxMessageLength,
			DeliveryTimeout:  config.DeliveryTimeout,
		},
		runtime.WithTextFilter(filter.Apply))

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(workers.NewEventFanout(logger, broadcast, registry, config.DeliveryTimeout, searchIndex, metrics))

	authService := services.NewAuthService(userRepository, tokens)
	chatService := services.NewChatService(logger, userRepository, messageRepository, searchIndex, dispatcher)

	// 4. Ops HTTP server
	monitor, err := observability.NewProcessMonitor(logger, registry.ConnectionCount)
	if err != nil {
		return exitRuntime, fmt.Errorf("process monitor failed: %w", err)
	}
	opsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.OpsPort),
		Handler:           observability.NewRouter(logger, monitor, promRegistry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 2)

	go sup.Run(ctx)

	go func() {
		logger.Info("Starting ops server", "address", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ops server error: %w", err)
		}
	}()

	// 5. gRPC Server Setup
	// Unary: logging, then fail-open authentication, then authorization.
	// Streams: the handshake, which fails closed.
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			auth.NewRequestAuthenticator(logger, tokens).Interceptor(),
			auth.NewAuthorizer(auth.DefaultRules).Interceptor(),
		),
		grpc.StreamInterceptor(auth.NewStreamAuthenticator(logger, tokens).
			OnReject(func(_ string, err error) { metrics.HandshakeRejected(auth.RejectReason(err)) }).
			Interceptor()),
	)
	pbaccount.RegisterAuthServiceServer(s, server.NewAuthServer(authService))
	pb.RegisterChatServiceServer(s, server.NewChatServer(logger, chatService, dispatcher, registry, config.ConnectionBufferSize))
	pb.RegisterAdminServiceServer(s, server.NewAdminServer(chatService))

	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed service", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 7. Graceful Shutdown
	// Streams end with the server, so every connection unregisters before the workers stop.
	logger.Info("Shutting down gracefully...")
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		// Live connections never end on their own.
		logger.Warn("Graceful stop timed out, closing remaining streams")
		s.Stop()
	}
	sup.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Ops server shutdown failed", "error", err)
	}
	logger.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(ctx context.Context, config internal.Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		// The inspector reads the same directory.
		return options.WithLoggingLevel(badger.DEBUG).WithBypassLockGuard(true)
	}
	return options.WithLoggingLevel(badger.INFO)
}
