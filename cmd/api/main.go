package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/wish-santa/backend/internal/config"
	"github.com/zhouzirui/wish-santa/backend/internal/handler"
	"github.com/zhouzirui/wish-santa/backend/internal/logging"
	"github.com/zhouzirui/wish-santa/backend/internal/service/assignment"
	"github.com/zhouzirui/wish-santa/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

// run wires the service and blocks until ctx is cancelled. It returns the
// process exit status.
func run(ctx context.Context, stderr io.Writer) int {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment", zap.Error(envErr))
	}

	wishes := storage.LoadWishes(cfg.Store.WishesPath, logger)
	if len(wishes) == 0 {
		fmt.Fprintf(stderr, "Error: No wishes loaded. Check %s\n", cfg.Store.WishesPath)
		return 1
	}

	assignmentStore := storage.NewAssignmentStore(cfg.Store.AssignmentsPath, logger)
	svc := assignment.NewService(wishes, assignmentStore.Load(), assignmentStore,
		assignment.WithLogger(logger),
		assignment.WithReserveAssigned(cfg.Store.ReserveAssigned),
	)
	logger.Info("wish service ready",
		zap.Int("wishes", len(wishes)),
		zap.Int("assignments", len(svc.Assignments())),
		zap.Int("remaining", svc.Remaining()),
		zap.String("assignments_file", assignmentStore.Path()))

	router := handler.NewRouter(svc, logger)

	if err := startServer(ctx, cfg.Server, router, logger); err != nil {
		fmt.Fprintf(stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("wish service listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	return nil
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
