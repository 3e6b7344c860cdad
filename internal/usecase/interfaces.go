package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triazov/torcalc/internal/domain"
)

// Backend is a transaction store that can be authoritative for the ledger.
// Exactly one backend is authoritative per operation; the ledger service
// selects it via the Detector and never splits an operation across backends.
type Backend interface {
	// List returns the full transaction set, most recent first.
	List(ctx context.Context) ([]domain.Transaction, error)
	// Add stores a new transaction and returns it with the backend-assigned
	// id and normalized creation time. Id allocation authority belongs to
	// the active backend, never the caller.
	Add(ctx context.Context, amount decimal.Decimal, comment string) (domain.Transaction, error)
	// Delete removes a single transaction by id.
	Delete(ctx context.Context, id string) error
	// Clear removes the entire set.
	Clear(ctx context.Context) error
}

// Detector reports whether the host bridge surface is currently available.
// It must be side-effect free, and is re-checked on every operation because
// the host may attach after startup.
type Detector interface {
	Available() bool
}

// Exporter produces export artifacts on the host side of the bridge. Only
// the remote backend implements it; in local mode the service serializes the
// view itself.
type Exporter interface {
	ExportCSV(ctx context.Context) error
	BackupJSON(ctx context.Context) error
}

// IDGenerator generates unique, monotonically distinguishable IDs.
type IDGenerator interface {
	Generate() string
}

// FileSaver persists a rendered export artifact in local mode (the stand-in
// for a browser file download).
type FileSaver interface {
	Save(name string, data []byte) (path string, err error)
}

// Clock supplies the current time; injected so tests can pin it.
type Clock func() time.Time
