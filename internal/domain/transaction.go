package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the only persisted entity: a signed amount with a free-text
// comment. Positive amounts are income, negative are expense; there is no
// separate type field.
type Transaction struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ParseAmount parses user input into a signed decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// NormalizeComment trims the comment; no further validation is applied.
func NormalizeComment(raw string) string {
	return strings.TrimSpace(raw)
}

// Summary holds the derived balance aggregates of a ledger view.
type Summary struct {
	Total   decimal.Decimal
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Summarize recomputes the aggregates from scratch. It is intentionally not
// incremental: the view is small and recomputation cannot drift.
func Summarize(transactions []Transaction) Summary {
	s := Summary{
		Total:   decimal.Zero,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, tx := range transactions {
		s.Total = s.Total.Add(tx.Amount)
		if tx.Amount.IsPositive() {
			s.Income = s.Income.Add(tx.Amount)
		} else if tx.Amount.IsNegative() {
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	return s
}
