// Package testutil provides fixtures for integration tests: a full host
// surface running on a throwaway unix socket and sqlite database.
package testutil

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/triazov/torcalc/internal/adapter/repository"
	repoSqlite "github.com/triazov/torcalc/internal/adapter/repository/sqlite"
	"github.com/triazov/torcalc/internal/adapter/rpc"
	"github.com/triazov/torcalc/internal/adapter/rpc/handler"
	"github.com/triazov/torcalc/internal/infrastructure/metrics"
	infraSqlite "github.com/triazov/torcalc/internal/infrastructure/sqlite"
)

// Registered once for the whole test binary; prometheus rejects duplicate
// registrations on its default registry.
var testMetrics = metrics.New()

// TestHost is a running host daemon surface for integration tests.
type TestHost struct {
	SocketPath string
	DataDir    string
	ExportDir  string
	DB         *sql.DB

	server *http.Server
}

// StartHost boots the full RPC surface on a fresh unix socket with seeded
// test accounts. The host is torn down with Stop or at test cleanup.
func StartHost(t *testing.T) *TestHost {
	t.Helper()

	dataDir := t.TempDir()
	db, err := infraSqlite.Open(filepath.Join(dataDir, "torcalc.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	users := repoSqlite.NewUserRepository(db, "torcalc")
	if err := users.SeedTestAccounts(context.Background()); err != nil {
		t.Fatalf("failed to seed accounts: %v", err)
	}
	transactions := repoSqlite.NewTransactionRepository(db, repository.NewULIDGenerator(), nil)

	// Unix socket paths have a tight length limit; t.TempDir can exceed it.
	sockDir, err := os.MkdirTemp("", "torcalc")
	if err != nil {
		t.Fatalf("failed to create socket dir: %v", err)
	}
	socketPath := filepath.Join(sockDir, "bridge.sock")

	exportDir := filepath.Join(dataDir, "exports")
	h := handler.NewRPCHandler(handler.Config{
		Transactions: transactions,
		Users:        users,
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "torcalc.db"),
		ExportDir:    exportDir,
		Metrics:      testMetrics,
		Logger:       zerolog.Nop(),
	})
	router := rpc.NewRouter(rpc.RouterConfig{
		RPCHandler: h,
		Metrics:    testMetrics,
		Logger:     zerolog.Nop(),
	})

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("failed to listen on %s: %v", socketPath, err)
	}

	host := &TestHost{
		SocketPath: socketPath,
		DataDir:    dataDir,
		ExportDir:  exportDir,
		DB:         db,
		server:     &http.Server{Handler: router},
	}
	go host.server.Serve(listener)

	t.Cleanup(func() {
		host.Stop()
		os.RemoveAll(sockDir)
	})
	return host
}

// Stop shuts the surface down and removes the socket, simulating the host
// daemon going away mid-session.
func (h *TestHost) Stop() {
	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		h.server.Shutdown(ctx)
		h.server = nil
	}
	if h.DB != nil {
		h.DB.Close()
		h.DB = nil
	}
	os.Remove(h.SocketPath)
}
