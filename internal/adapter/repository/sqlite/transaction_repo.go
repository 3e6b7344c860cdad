package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triazov/torcalc/internal/domain"
	"github.com/triazov/torcalc/internal/usecase"
)

// TransactionRepository persists transactions in the host sqlite database.
// It is the id-allocation authority whenever the bridge is active.
type TransactionRepository struct {
	db    *sql.DB
	idGen usecase.IDGenerator
	now   usecase.Clock
}

// NewTransactionRepository creates a TransactionRepository.
func NewTransactionRepository(db *sql.DB, idGen usecase.IDGenerator, now usecase.Clock) *TransactionRepository {
	if now == nil {
		now = time.Now
	}
	return &TransactionRepository{db: db, idGen: idGen, now: now}
}

// List returns all transactions, most recent first.
func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, comment, created_at FROM transactions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []domain.Transaction{}
	for rows.Next() {
		var (
			tx        domain.Transaction
			amount    string
			createdAt string
		)
		if err := rows.Scan(&tx.ID, &amount, &tx.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("decode amount for %s: %w", tx.ID, err)
		}
		if tx.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("decode created_at for %s: %w", tx.ID, err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Add inserts a new transaction with a freshly minted id and UTC timestamp.
func (r *TransactionRepository) Add(ctx context.Context, amount decimal.Decimal, comment string) (domain.Transaction, error) {
	tx := domain.Transaction{
		ID:        r.idGen.Generate(),
		Amount:    amount,
		Comment:   comment,
		CreatedAt: r.now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount, comment, created_at) VALUES (?, ?, ?, ?)`,
		tx.ID, tx.Amount.String(), tx.Comment, tx.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

// Delete removes a transaction by id and reports how many rows went away.
func (r *TransactionRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes the entire set.
func (r *TransactionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	return nil
}
