// hostd is the desktop host daemon: it owns the sqlite database and serves
// the bridge RPC surface on a unix socket inside the data directory. A
// client that finds the socket treats the host as the authoritative backend.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	repository "github.com/triazov/torcalc/internal/adapter/repository"
	sqliteRepo "github.com/triazov/torcalc/internal/adapter/repository/sqlite"
	"github.com/triazov/torcalc/internal/adapter/rpc"
	"github.com/triazov/torcalc/internal/adapter/rpc/handler"
	"github.com/triazov/torcalc/internal/infrastructure/config"
	"github.com/triazov/torcalc/internal/infrastructure/logger"
	"github.com/triazov/torcalc/internal/infrastructure/metrics"
	"github.com/triazov/torcalc/internal/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog

	ctx := context.Background()

	db, err := sqlite.Open(cfg.DBPath())
	if err != nil {
		zlog.Fatal().Err(err).Str("path", cfg.DBPath()).Msg("failed to open database")
	}
	defer db.Close()
	zlog.Info().Str("path", cfg.DBPath()).Msg("database ready")

	idGen := repository.NewULIDGenerator()
	txRepo := sqliteRepo.NewTransactionRepository(db, idGen, nil)
	userRepo := sqliteRepo.NewUserRepository(db, cfg.AuthSalt)

	if cfg.UseTestAuth {
		if err := userRepo.SeedTestAccounts(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("failed to seed test accounts")
		}
		zlog.Info().Msg("test auth enabled")
	}

	// window_close and OS signals funnel into the same stop channel.
	stop := make(chan struct{})
	var stopOnce sync.Once
	requestStop := func() { stopOnce.Do(func() { close(stop) }) }

	m := metrics.New()
	rpcHandler := handler.NewRPCHandler(handler.Config{
		Transactions: txRepo,
		Users:        userRepo,
		DataDir:      cfg.DataDir,
		DBPath:       cfg.DBPath(),
		ExportDir:    cfg.ExportDir(),
		Metrics:      m,
		Shutdown:     requestStop,
		Logger:       zlog,
	})

	router := rpc.NewRouter(rpc.RouterConfig{
		RPCHandler: rpcHandler,
		Metrics:    m,
		Logger:     zlog,
	})

	// A stale socket from a crashed host would make detection lie.
	if err := os.Remove(cfg.BridgeSocket); err != nil && !errors.Is(err, os.ErrNotExist) {
		zlog.Fatal().Err(err).Str("socket", cfg.BridgeSocket).Msg("cannot remove stale socket")
	}

	listener, err := net.Listen("unix", cfg.BridgeSocket)
	if err != nil {
		zlog.Fatal().Err(err).Str("socket", cfg.BridgeSocket).Msg("failed to listen")
	}

	server := &http.Server{Handler: router}

	go func() {
		zlog.Info().Str("socket", cfg.BridgeSocket).Msg("bridge surface up")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-stop:
	}

	zlog.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("server forced to shutdown")
	}
	os.Remove(cfg.BridgeSocket)

	zlog.Info().Msg("host stopped")
}
