package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triazov/torcalc/internal/domain"
)

func TestCSV(t *testing.T) {
	created := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	transactions := []domain.Transaction{
		{ID: "a", Amount: decimal.NewFromInt(800), Comment: "salary", CreatedAt: created},
		{ID: "b", Amount: decimal.RequireFromString("-12.5"), Comment: "tea; cakes", CreatedAt: created},
		{ID: "c", Amount: decimal.NewFromInt(1), Comment: "line\nbreak", CreatedAt: created},
		{ID: "d", Amount: decimal.NewFromInt(2), Comment: `say "hi"`, CreatedAt: created},
	}

	out := string(CSV(transactions))

	require.True(t, strings.HasPrefix(out, "\uFEFF"), "missing BOM")
	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Сумма;Комментарий;Дата", lines[0])
	assert.Equal(t, "800;salary;2026-09-01T10:30:00Z", lines[1])
	assert.Equal(t, `-12.5;"tea; cakes";2026-09-01T10:30:00Z`, lines[2])
	assert.Equal(t, "1;line break;2026-09-01T10:30:00Z", lines[3])
	assert.Equal(t, `2;"say ""hi""";2026-09-01T10:30:00Z`, lines[4])
}

func TestCSVEmptyLedger(t *testing.T) {
	out := string(CSV(nil))
	assert.Equal(t, "\uFEFFСумма;Комментарий;Дата", out)
}

func TestBackupRoundTrip(t *testing.T) {
	created := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	transactions := []domain.Transaction{
		{ID: "a", Amount: decimal.NewFromInt(800), Comment: "salary", CreatedAt: created},
		{ID: "b", Amount: decimal.RequireFromString("-700.25"), Comment: "", CreatedAt: created.Add(time.Minute)},
	}

	data, err := Backup(transactions, created)
	require.NoError(t, err)

	var payload BackupPayload
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Equal(t, AppName, payload.App)
	assert.Equal(t, AppVersion, payload.Version)
	require.Len(t, payload.Transactions, 2)
	for i, tx := range payload.Transactions {
		assert.Equal(t, transactions[i].ID, tx.ID)
		assert.True(t, transactions[i].Amount.Equal(tx.Amount), "amount mismatch at %d", i)
		assert.Equal(t, transactions[i].Comment, tx.Comment)
		assert.True(t, transactions[i].CreatedAt.Equal(tx.CreatedAt), "createdAt mismatch at %d", i)
	}
}

func TestFileNames(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "tor-calculator-export-2026-09-01.csv", CSVFileName(now))
	assert.Equal(t, "tor-calculator-backup-2026-09-01.json", BackupFileName(now))
}
