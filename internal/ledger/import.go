package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moneydrain/internal/category"
	"moneydrain/internal/core"
	"moneydrain/internal/log"
)

// ImportResult reports what a bulk import replayed.
type ImportResult struct {
	Transactions int `json:"transactions"`
	Categories   int `json:"categories"`
}

// Import replays every custom category and transaction from src into dst by
// running them through dst's own CreateCategory/Add path. Switching between
// the anonymous and authenticated stores never migrates data implicitly;
// this explicit, caller-initiated replay is the only bridge between the two.
// Custom categories get fresh ids in dst, and replayed transactions are
// remapped onto them so no reference dangles after the import.
func Import(ctx context.Context, src, dst Store, accounts []int) (ImportResult, error) {
	var res ImportResult

	// old custom id -> id minted by dst
	remap := map[string]string{}

	for _, t := range []core.Type{core.Expense, core.Income} {
		cats, err := src.Categories(ctx, t)
		if err != nil {
			return res, fmt.Errorf("list source %s categories: %w", t, err)
		}
		for _, c := range cats {
			if !strings.HasPrefix(c.ID, category.CustomPrefix) {
				continue
			}
			created, err := dst.CreateCategory(ctx, t, c.Name, c.Icon, c.Color)
			if err != nil {
				return res, fmt.Errorf("import category %q: %w", c.Name, err)
			}
			remap[c.ID] = created.ID
			res.Categories++
		}
	}

	for _, account := range accounts {
		txs, err := src.List(ctx, account)
		if err != nil {
			return res, fmt.Errorf("list source account %d: %w", account, err)
		}
		for _, t := range txs {
			cat := t.Category
			if mapped, ok := remap[cat]; ok {
				cat = mapped
			} else if strings.HasPrefix(cat, category.CustomPrefix) {
				// Dangling reference in the source; keep the ledger intact
				// and let it resolve to the fallback on display.
				cat = category.Other.ID
			}
			draft := Draft{
				Description: t.Description,
				Amount:      t.Amount,
				Type:        t.Type,
				Category:    cat,
				Date:        t.Date,
			}
			if _, err := dst.Add(ctx, account, draft); err != nil {
				return res, fmt.Errorf("import transaction %s: %w", t.ID, err)
			}
			res.Transactions++
		}
		slog.InfoContext(ctx, "Imported account partition",
			log.FieldAccount, account,
			"transactions", len(txs))
	}

	return res, nil
}
