package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "positive integer", raw: "800", want: "800"},
		{name: "negative integer", raw: "-700", want: "-700"},
		{name: "decimal fraction", raw: "12.50", want: "12.5"},
		{name: "explicit plus", raw: "+900", want: "900"},
		{name: "surrounding whitespace", raw: "  42 ", want: "42"},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
		{name: "trailing garbage", raw: "12x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				if err != ErrInvalidAmount {
					t.Errorf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.String())
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	transactions := []Transaction{
		{ID: "a", Amount: decimal.NewFromInt(800)},
		{ID: "b", Amount: decimal.NewFromInt(-700)},
		{ID: "c", Amount: decimal.NewFromInt(900)},
	}

	s := Summarize(transactions)

	if s.Total.String() != "1000" {
		t.Errorf("expected total 1000, got %s", s.Total)
	}
	if s.Income.String() != "1700" {
		t.Errorf("expected income 1700, got %s", s.Income)
	}
	if s.Expense.String() != "-700" {
		t.Errorf("expected expense -700, got %s", s.Expense)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.Total.IsZero() || !s.Income.IsZero() || !s.Expense.IsZero() {
		t.Errorf("expected all-zero summary, got %+v", s)
	}
}

func TestSummarizeIgnoresZeroForClassification(t *testing.T) {
	s := Summarize([]Transaction{{ID: "z", Amount: decimal.Zero}})
	if !s.Income.IsZero() || !s.Expense.IsZero() {
		t.Errorf("zero amount must not count as income or expense, got %+v", s)
	}
}

func TestNormalizeComment(t *testing.T) {
	if got := NormalizeComment("  rent  "); got != "rent" {
		t.Errorf("expected trimmed comment, got %q", got)
	}
	if got := NormalizeComment(""); got != "" {
		t.Errorf("expected empty comment to stay empty, got %q", got)
	}
}
