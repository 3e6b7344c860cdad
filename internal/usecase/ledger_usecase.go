package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/triazov/torcalc/internal/domain"
	"github.com/triazov/torcalc/internal/export"
)

// LedgerService is the single facade all ledger actions go through. It owns
// the in-memory view and reconciles every completed operation against
// whichever backend is authoritative at that moment.
//
// Backend selection is re-evaluated at operation entry, never mid-operation:
// once the detector reports the bridge, every subsequent operation is routed
// through the remote backend, while an in-flight one finishes where it
// started.
type LedgerService struct {
	mu       sync.Mutex
	detector Detector
	local    Backend
	remote   Backend
	exporter Exporter
	saver    FileSaver
	now      Clock
	logger   zerolog.Logger
	view     []domain.Transaction
}

// NewLedgerService wires the facade. exporter and saver back the remote and
// local export paths respectively.
func NewLedgerService(detector Detector, localBackend, remoteBackend Backend, exporter Exporter, saver FileSaver, now Clock, logger zerolog.Logger) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		detector: detector,
		local:    localBackend,
		remote:   remoteBackend,
		exporter: exporter,
		saver:    saver,
		now:      now,
		logger:   logger.With().Str("component", "ledger").Logger(),
	}
}

// activeBackend probes the detector and returns the authoritative backend
// for the operation that is about to run.
func (s *LedgerService) activeBackend() (Backend, bool) {
	if s.detector.Available() {
		return s.remote, true
	}
	return s.local, false
}

// DesktopMode reports whether the next operation would be routed through the
// bridge. Display only; operations re-probe on entry.
func (s *LedgerService) DesktopMode() bool {
	return s.detector.Available()
}

// Initialize rebuilds the in-memory view from the active backend. The two
// sources are never merged. A read failure leaves the previous view in place
// (empty on first run) and is returned for the caller to surface.
func (s *LedgerService) Initialize(ctx context.Context) error {
	backend, viaBridge := s.activeBackend()
	items, err := backend.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Bool("bridge", viaBridge).Msg("initialize failed, keeping cached view")
		return err
	}

	s.mu.Lock()
	s.view = items
	s.mu.Unlock()
	return nil
}

// Add parses the raw amount, trims the comment and dispatches to the active
// backend. There is no optimistic insert: the view changes only after the
// backend acknowledged the write, so it never shows an entry the backend did
// not store.
func (s *LedgerService) Add(ctx context.Context, rawAmount, rawComment string) (domain.Transaction, error) {
	amount, err := domain.ParseAmount(rawAmount)
	if err != nil {
		return domain.Transaction{}, err
	}
	comment := domain.NormalizeComment(rawComment)

	backend, _ := s.activeBackend()
	tx, err := backend.Add(ctx, amount, comment)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", domain.ErrAddFailed, err)
	}

	s.mu.Lock()
	s.view = append([]domain.Transaction{tx}, s.view...)
	s.mu.Unlock()
	return tx, nil
}

// Delete removes the transaction from the view immediately, then issues the
// backend deletion best-effort. A backend failure is logged and swallowed
// and the entry is not re-inserted: for deletes the view is king.
func (s *LedgerService) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	kept := make([]domain.Transaction, 0, len(s.view))
	for _, tx := range s.view {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	s.view = kept
	s.mu.Unlock()

	backend, _ := s.activeBackend()
	if err := backend.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("backend delete failed, view already updated")
	}
}

// Clear empties the view immediately, then clears the active backend with
// the same best-effort policy as Delete. Clearing an already empty ledger is
// not an error.
func (s *LedgerService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.view = nil
	s.mu.Unlock()

	backend, _ := s.activeBackend()
	if err := backend.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("backend clear failed, view already updated")
	}
}

// Transactions returns a copy of the current view, most recent first.
func (s *LedgerService) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.view))
	copy(out, s.view)
	return out
}

// Balance recomputes the aggregates from the current view.
func (s *LedgerService) Balance() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Summarize(s.view)
}

// ExportCSV renders the ledger as a CSV report. With the bridge active the
// host writes the file itself and the returned path is empty; in local mode
// the view is serialized client-side and saved through the FileSaver.
func (s *LedgerService) ExportCSV(ctx context.Context) (string, error) {
	if _, viaBridge := s.activeBackend(); viaBridge {
		return "", s.exporter.ExportCSV(ctx)
	}
	data := export.CSV(s.Transactions())
	return s.saver.Save(export.CSVFileName(s.now()), data)
}

// BackupJSON writes a structural snapshot of the full transaction set,
// routed like ExportCSV.
func (s *LedgerService) BackupJSON(ctx context.Context) (string, error) {
	if _, viaBridge := s.activeBackend(); viaBridge {
		return "", s.exporter.BackupJSON(ctx)
	}
	data, err := export.Backup(s.Transactions(), s.now())
	if err != nil {
		return "", err
	}
	return s.saver.Save(export.BackupFileName(s.now()), data)
}
