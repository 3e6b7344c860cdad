// Package local implements the same-process durable backend used when no
// bridge is available. The full transaction set is kept as one JSON document
// under a fixed namespace key and overwritten wholesale on every mutation:
// a crash between mutation and write loses at most the latest operation and
// never corrupts older entries, because the old bytes stay readable until
// the replacement file is renamed into place.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/triazov/torcalc/internal/domain"
	"github.com/triazov/torcalc/internal/usecase"
)

// Namespace is the fixed key the transaction array is stored under.
const Namespace = "torcalc.transactions"

// Store is the local backend. It mints ids and creation timestamps itself:
// when it is active, id allocation authority belongs to it alone.
//
// A failing storage medium degrades the store to memory-only for the rest of
// the session; operations keep succeeding against the in-memory mirror.
type Store struct {
	path     string
	idGen    usecase.IDGenerator
	now      usecase.Clock
	logger   zerolog.Logger
	loaded   bool
	degraded bool
	items    []domain.Transaction
}

// NewStore creates a local store persisting to path. The file is created on
// first mutation.
func NewStore(path string, idGen usecase.IDGenerator, now usecase.Clock, logger zerolog.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		path:   path,
		idGen:  idGen,
		now:    now,
		logger: logger.With().Str("component", "localstore").Logger(),
	}
}

// List returns the full transaction set, most recent first.
func (s *Store) List(ctx context.Context) ([]domain.Transaction, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Add stores a new transaction with a freshly minted id.
func (s *Store) Add(ctx context.Context, amount decimal.Decimal, comment string) (domain.Transaction, error) {
	if err := s.load(); err != nil {
		return domain.Transaction{}, err
	}
	tx := domain.Transaction{
		ID:        s.idGen.Generate(),
		Amount:    amount,
		Comment:   comment,
		CreatedAt: s.now().UTC(),
	}
	s.items = append([]domain.Transaction{tx}, s.items...)
	s.persist()
	return tx, nil
}

// Delete removes a single transaction by id. Deleting an unknown id is not
// an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.load(); err != nil {
		return err
	}
	kept := s.items[:0]
	for _, tx := range s.items {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	s.items = kept
	s.persist()
	return nil
}

// Clear overwrites the persisted set with an empty one.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.load(); err != nil {
		return err
	}
	s.items = nil
	s.persist()
	return nil
}

// load reads the durable record once per session. A missing file means an
// empty ledger; an unreadable or undecodable file degrades to memory-only.
func (s *Store) load() error {
	if s.loaded {
		return nil
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.degrade("read", err)
		return nil
	}

	var doc map[string][]domain.Transaction
	if err := json.Unmarshal(data, &doc); err != nil {
		s.degrade("decode", err)
		return nil
	}
	s.items = doc[Namespace]
	return nil
}

// persist overwrites the whole record. Failures are absorbed: the session
// continues memory-only.
func (s *Store) persist() {
	if s.degraded {
		return
	}
	doc := map[string][]domain.Transaction{Namespace: s.items}
	if doc[Namespace] == nil {
		doc[Namespace] = []domain.Transaction{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		s.degrade("encode", err)
		return
	}
	if err := writeAtomic(s.path, data); err != nil {
		s.degrade("write", err)
	}
}

func (s *Store) degrade(op string, err error) {
	s.degraded = true
	s.logger.Warn().Err(err).Str("op", op).Str("path", s.path).
		Msg("local storage unavailable, continuing memory-only")
}

// writeAtomic replaces path via a sibling temp file and rename, so readers
// never observe a half-written record.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
