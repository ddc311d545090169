package report

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"moneydrain/internal/core"
	"moneydrain/internal/currency"
	"moneydrain/internal/period"
)

// csvRow is the export row shape. Column order and header names are part of
// the export contract.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Category    string `csv:"Category"`
	Type        string `csv:"Type"`
	Amount      string `csv:"Amount"`
}

// WriteCSV writes the filtered transactions as a CSV report with the
// Date,Description,Category,Type,Amount header row. Quoting and quote
// doubling follow RFC 4180.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	rows := make([]csvRow, len(txs))
	for i, t := range txs {
		rows[i] = csvRow{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Category:    t.Category,
			Type:        string(t.Type),
			Amount:      t.Amount.String(),
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("marshal csv report: %w", err)
	}
	return nil
}

// Document is the JSON report envelope: scope metadata plus the filtered
// transaction array.
type Document struct {
	Account      int                `json:"account"`
	Period       period.Period      `json:"period"`
	PeriodLabel  string             `json:"periodLabel"`
	Currency     currency.Code      `json:"currency"`
	ExportedAt   time.Time          `json:"exportedAt"`
	Transactions []core.Transaction `json:"transactions"`
}

// BuildDocument assembles the JSON report for a filtered set. Serialization
// itself stays with the caller.
func BuildDocument(account int, p period.Period, cur currency.Code, txs []core.Transaction, now time.Time) Document {
	if txs == nil {
		txs = []core.Transaction{}
	}
	return Document{
		Account:      account,
		Period:       p,
		PeriodLabel:  p.Label(),
		Currency:     cur,
		ExportedAt:   now,
		Transactions: txs,
	}
}

// Filename derives the export file name for a report download.
func Filename(account int, p period.Period, ext string, now time.Time) string {
	return fmt.Sprintf("moneydrain-report-account%d-%s-%s.%s",
		account, p, now.Format("2006-01-02"), ext)
}
