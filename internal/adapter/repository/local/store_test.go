package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqGen struct{ n int }

func (g *seqGen) Generate() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func fixedClock() time.Time {
	return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	return NewStore(path, &seqGen{}, fixedClock, zerolog.Nop())
}

func TestStore_EmptyWhenFileMissing(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "ledger.json"))

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_AddPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	store := newTestStore(t, path)
	first, err := store.Add(ctx, decimal.NewFromInt(800), "salary")
	require.NoError(t, err)
	second, err := store.Add(ctx, decimal.RequireFromString("-12.5"), "tea")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, fixedClock(), first.CreatedAt)

	// A fresh store instance must rebuild the identical set from disk.
	reloaded := newTestStore(t, path)
	items, err := reloaded.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "most recent first")
	assert.Equal(t, first.ID, items[1].ID)
	assert.True(t, items[1].Amount.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "tea", items[0].Comment)
}

func TestStore_RecordKeyedUnderNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	store := newTestStore(t, path)
	_, err := store.Add(context.Background(), decimal.NewFromInt(1), "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, Namespace)
	assert.Len(t, doc, 1)
}

func TestStore_DeleteAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()
	store := newTestStore(t, path)

	a, err := store.Add(ctx, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	_, err = store.Add(ctx, decimal.NewFromInt(2), "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, a.ID))
	items, err := newTestStore(t, path).List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Deleting an unknown id is not an error.
	require.NoError(t, store.Delete(ctx, "missing"))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	items, err = newTestStore(t, path).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_CorruptFileDegradesToMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	ctx := context.Background()

	store := newTestStore(t, path)
	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Operations keep succeeding against the in-memory mirror.
	tx, err := store.Add(ctx, decimal.NewFromInt(5), "memory only")
	require.NoError(t, err)
	items, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tx.ID, items[0].ID)

	// The corrupt record is left untouched.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestStore_ClearWritesEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()
	store := newTestStore(t, path)
	_, err := store.Add(ctx, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotNil(t, doc[Namespace])
	assert.Empty(t, doc[Namespace])
}
