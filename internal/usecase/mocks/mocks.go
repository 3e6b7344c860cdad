package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/triazov/torcalc/internal/domain"
)

// MockBackend is a mock implementation of usecase.Backend. Without Func
// overrides it behaves like a small in-memory store.
type MockBackend struct {
	mu    sync.Mutex
	items []domain.Transaction
	seq   int

	ListFunc   func(ctx context.Context) ([]domain.Transaction, error)
	AddFunc    func(ctx context.Context, amount decimal.Decimal, comment string) (domain.Transaction, error)
	DeleteFunc func(ctx context.Context, id string) error
	ClearFunc  func(ctx context.Context) error

	DeleteCalls []string
	ClearCalls  int
}

func NewMockBackend(seed ...domain.Transaction) *MockBackend {
	return &MockBackend{items: seed}
}

func (m *MockBackend) List(ctx context.Context) ([]domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MockBackend) Add(ctx context.Context, amount decimal.Decimal, comment string) (domain.Transaction, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, amount, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	tx := domain.Transaction{
		ID:      fmt.Sprintf("tx-%d", m.seq),
		Amount:  amount,
		Comment: comment,
	}
	m.items = append([]domain.Transaction{tx}, m.items...)
	return tx, nil
}

func (m *MockBackend) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, tx := range m.items {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	m.items = kept
	return nil
}

func (m *MockBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

// Items exposes the backend's own contents for view/backend equality checks.
func (m *MockBackend) Items() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, len(m.items))
	copy(out, m.items)
	return out
}

// MockDetector is a mock implementation of usecase.Detector.
type MockDetector struct {
	Bridge bool
}

func (m *MockDetector) Available() bool {
	return m.Bridge
}

// MockExporter is a mock implementation of usecase.Exporter.
type MockExporter struct {
	ExportCSVFunc  func(ctx context.Context) error
	BackupJSONFunc func(ctx context.Context) error

	ExportCSVCalls  int
	BackupJSONCalls int
}

func (m *MockExporter) ExportCSV(ctx context.Context) error {
	m.ExportCSVCalls++
	if m.ExportCSVFunc != nil {
		return m.ExportCSVFunc(ctx)
	}
	return nil
}

func (m *MockExporter) BackupJSON(ctx context.Context) error {
	m.BackupJSONCalls++
	if m.BackupJSONFunc != nil {
		return m.BackupJSONFunc(ctx)
	}
	return nil
}

// MockFileSaver is a mock implementation of usecase.FileSaver that captures
// saved artifacts in memory.
type MockFileSaver struct {
	Saved map[string][]byte
}

func NewMockFileSaver() *MockFileSaver {
	return &MockFileSaver{Saved: make(map[string][]byte)}
}

func (m *MockFileSaver) Save(name string, data []byte) (string, error) {
	m.Saved[name] = data
	return "/exports/" + name, nil
}
