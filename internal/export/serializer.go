// Package export renders the current ledger view as a spreadsheet-friendly
// CSV report or a structural JSON snapshot. Both renderings are read-only
// with respect to the ledger.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/triazov/torcalc/internal/domain"
)

const (
	// AppName and AppVersion identify backup payloads.
	AppName    = "TorCalculator"
	AppVersion = "0.0.1"

	// csvHeader is the fixed spreadsheet header. The report is aimed at
	// Russian-locale spreadsheets, hence the localized captions and the ';'
	// separator.
	csvHeader = "Сумма;Комментарий;Дата"

	// utf8BOM makes Excel detect the encoding.
	utf8BOM = "\uFEFF"
)

// CSV renders transactions in view order as a ';'-delimited report with a
// UTF-8 byte-order mark.
func CSV(transactions []domain.Transaction) []byte {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(csvHeader)

	for _, tx := range transactions {
		b.WriteString("\n")
		b.WriteString(tx.Amount.String())
		b.WriteString(";")
		b.WriteString(escapeField(tx.Comment))
		b.WriteString(";")
		b.WriteString(tx.CreatedAt.Format(time.RFC3339))
	}
	return []byte(b.String())
}

// escapeField flattens newlines and applies the quote-doubling convention so
// the field survives the ';' delimiter.
func escapeField(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	hadQuotes := strings.Contains(s, `"`)
	s = strings.ReplaceAll(s, `"`, `""`)
	if strings.Contains(s, ";") || hadQuotes {
		s = `"` + s + `"`
	}
	return s
}

// BackupPayload is the structural snapshot written by JSON backups.
type BackupPayload struct {
	App          string               `json:"app"`
	Version      string               `json:"version"`
	ExportedAt   time.Time            `json:"exportedAt"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Backup serializes the full transaction set with no transformation. An
// empty ledger snapshots as an empty array, not null.
func Backup(transactions []domain.Transaction, now time.Time) ([]byte, error) {
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	payload := BackupPayload{
		App:          AppName,
		Version:      AppVersion,
		ExportedAt:   now.UTC(),
		Transactions: transactions,
	}
	return json.MarshalIndent(payload, "", "  ")
}

// CSVFileName returns the dated export file name.
func CSVFileName(now time.Time) string {
	return fmt.Sprintf("tor-calculator-export-%s.csv", now.Format("2006-01-02"))
}

// BackupFileName returns the dated backup file name.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("tor-calculator-backup-%s.json", now.Format("2006-01-02"))
}
