// moneydrain-report prints a period report for a local-mode data directory
// without going through the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"moneydrain/internal/core"
	"moneydrain/internal/currency"
	"moneydrain/internal/ledger/local"
	"moneydrain/internal/period"
	"moneydrain/internal/report"
)

func main() {
	var (
		dataDir    = flag.String("data", "./data/local", "local ledger data directory")
		account    = flag.Int("account", 1, "account partition")
		periodFlag = flag.String("period", "all", "report period (1d-6d, 1m-6m, 1y-5y, all)")
		format     = flag.String("format", "csv", "output format: csv, json or summary")
		query      = flag.String("q", "", "search query over description and category")
		cur        = flag.String("currency", "USD", "display currency for report metadata")
	)
	flag.Parse()

	if err := run(*dataDir, *account, *periodFlag, *format, *query, *cur); err != nil {
		fmt.Fprintln(os.Stderr, "moneydrain-report:", err)
		os.Exit(1)
	}
}

func run(dataDir string, account int, periodArg, format, query, currencyArg string) error {
	if !core.ValidAccount(account) {
		return core.ErrInvalidAccount
	}
	p, err := period.Parse(periodArg)
	if err != nil {
		return err
	}
	cur, err := currency.Parse(currencyArg)
	if err != nil {
		return err
	}

	store, err := local.Open(dataDir)
	if err != nil {
		return err
	}

	txs, err := store.List(context.Background(), account)
	if err != nil {
		return err
	}
	now := time.Now()
	filtered := report.Search(period.Filter(txs, p, now), query)
	recent := report.Recent(filtered)

	switch format {
	case "csv":
		return report.WriteCSV(os.Stdout, recent)
	case "json":
		doc := report.BuildDocument(account, p, cur, recent, now)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "summary":
		return printSummary(report.Wrap(filtered), cur, p)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func printSummary(w report.Wrapped, cur currency.Code, p period.Period) error {
	f, err := currency.NewFormatter(cur)
	if err != nil {
		return err
	}

	fmt.Printf("%s overview (%d transactions)\n", p.Label(), w.Count)
	fmt.Printf("  income:   %s\n", f.Format(w.TotalIncome))
	fmt.Printf("  expenses: %s\n", f.Format(w.TotalExpense))
	fmt.Printf("  balance:  %s\n", f.Format(w.Balance))
	fmt.Printf("  savings rate: %s%%\n", w.SavingsRate.StringFixed(1))
	if w.BiggestExpense != nil {
		fmt.Printf("  biggest expense: %s (%s)\n",
			w.BiggestExpense.Description, f.Format(w.BiggestExpense.Amount))
	}
	if w.MostFrequentCategory != nil {
		fmt.Printf("  most frequent category: %s (%d)\n",
			w.MostFrequentCategory.Category, w.MostFrequentCategory.Count)
	}
	if len(w.Top3Categories) > 0 {
		fmt.Println("  top categories:")
		for _, c := range w.Top3Categories {
			fmt.Printf("    %-16s %s\n", c.Category, f.Format(c.Amount))
		}
	}
	return nil
}
