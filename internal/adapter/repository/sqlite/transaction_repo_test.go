package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/triazov/torcalc/internal/adapter/repository/sqlite"
	infra "github.com/triazov/torcalc/internal/infrastructure/sqlite"
)

type seqGen struct{ n int }

func (g *seqGen) Generate() string {
	g.n++
	return "01HZ" + string(rune('A'+g.n-1)) + "000000000000000000000"
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := infra.Open(filepath.Join(t.TempDir(), "torcalc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTransactionRepository_AddAndList(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	r := repo.NewTransactionRepository(db, &seqGen{}, clock)
	ctx := context.Background()

	first, err := r.Add(ctx, decimal.NewFromInt(800), "salary")
	require.NoError(t, err)
	second, err := r.Add(ctx, decimal.RequireFromString("-700.25"), "rent")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	txs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Most recent first.
	assert.Equal(t, second.ID, txs[0].ID)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("-700.25")))
	assert.Equal(t, "rent", txs[0].Comment)
	assert.Equal(t, base.Add(2*time.Minute), txs[0].CreatedAt)

	assert.Equal(t, first.ID, txs[1].ID)
	assert.True(t, txs[1].Amount.Equal(decimal.NewFromInt(800)))
}

func TestTransactionRepository_AmountSurvivesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	r := repo.NewTransactionRepository(db, &seqGen{}, nil)
	ctx := context.Background()

	// Stored as text so no float drift is possible.
	_, err := r.Add(ctx, decimal.RequireFromString("0.1"), "")
	require.NoError(t, err)
	_, err = r.Add(ctx, decimal.RequireFromString("0.2"), "")
	require.NoError(t, err)

	txs, err := r.List(ctx)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("0.3")), "got %s", sum)
}

func TestTransactionRepository_Delete(t *testing.T) {
	db := openTestDB(t)
	r := repo.NewTransactionRepository(db, &seqGen{}, nil)
	ctx := context.Background()

	tx, err := r.Add(ctx, decimal.NewFromInt(1), "")
	require.NoError(t, err)

	rows, err := r.Delete(ctx, tx.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = r.Delete(ctx, tx.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows, "second delete is a no-op")

	txs, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransactionRepository_Clear(t *testing.T) {
	db := openTestDB(t)
	r := repo.NewTransactionRepository(db, &seqGen{}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.Add(ctx, decimal.NewFromInt(int64(i)), "")
		require.NoError(t, err)
	}
	require.NoError(t, r.Clear(ctx))

	txs, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	// Clearing an empty table succeeds too.
	assert.NoError(t, r.Clear(ctx))
}
