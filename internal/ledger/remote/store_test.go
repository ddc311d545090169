package remote

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneydrain/internal/core"
	"moneydrain/internal/currency"
	"moneydrain/internal/ledger"
	"moneydrain/internal/log"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "ledger.db"), nil)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func draft(desc string, amount int64) ledger.Draft {
	return ledger.Draft{
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Type:        core.Expense,
		Category:    "food",
		Date:        time.Date(2026, time.January, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	st := newTestRepo(t).For("alice")

	first, err := st.Add(ctx, 1, draft("first", 100))
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.Add(ctx, 1, draft("second", 200))
	if err != nil {
		t.Fatal(err)
	}

	txs, err := st.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].ID != second.ID || txs[1].ID != first.ID {
		t.Error("transactions must list newest first")
	}
	if !txs[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("amount round-tripped as %s", txs[0].Amount)
	}
	if !txs[0].Date.Equal(second.Date) {
		t.Errorf("date round-tripped as %s, want %s", txs[0].Date, second.Date)
	}

	other, err := st.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("account 2 should be empty, got %d", len(other))
	}
}

func TestOwnershipHidesForeignRecords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := repo.For("alice")
	mallory := repo.For("mallory")

	owned, err := alice.Add(ctx, 1, draft("private", 100))
	if err != nil {
		t.Fatal(err)
	}

	// a foreign caller sees nothing, and gets the same error as for a
	// nonexistent id
	txs, err := mallory.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 0 {
		t.Errorf("foreign identity can see %d transactions", len(txs))
	}

	desc := "tampered"
	if err := mallory.Update(ctx, owned.ID, ledger.Patch{Description: &desc}); err != core.ErrNotFound {
		t.Errorf("foreign update error = %v, want ErrNotFound", err)
	}
	if err := mallory.Remove(ctx, owned.ID); err != core.ErrNotFound {
		t.Errorf("foreign remove error = %v, want ErrNotFound", err)
	}

	// the record survives untouched
	txs, _ = alice.List(ctx, 1)
	if len(txs) != 1 || txs[0].Description != "private" {
		t.Errorf("owned record was affected: %+v", txs)
	}
}

func TestAddLogsFieldVocabulary(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	st := newTestRepo(t).For("alice")
	added, err := st.Add(context.Background(), 1, draft("logged", 100))
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, field := range []string{
		log.FieldTransactionID + "=" + added.ID,
		log.FieldAccount + "=1",
		log.FieldCategory + "=food",
	} {
		if !strings.Contains(out, field) {
			t.Errorf("log output missing %q:\n%s", field, out)
		}
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestRepo(t).For("alice")

	added, err := st.Add(ctx, 1, draft("lunch", 100))
	if err != nil {
		t.Fatal(err)
	}

	desc := "  dinner  "
	typ := core.Income
	if err := st.Update(ctx, added.ID, ledger.Patch{Description: &desc, Type: &typ}); err != nil {
		t.Fatal(err)
	}

	txs, _ := st.List(ctx, 1)
	if txs[0].Description != "dinner" {
		t.Errorf("description = %q, want trimmed %q", txs[0].Description, "dinner")
	}
	if txs[0].Type != core.Income {
		t.Errorf("type = %q, want income", txs[0].Type)
	}
	if !txs[0].Amount.Equal(added.Amount) {
		t.Error("unpatched amount changed")
	}

	badCat := "custom_missing"
	if err := st.Update(ctx, added.ID, ledger.Patch{Category: &badCat}); err != core.ErrUnknownCategory {
		t.Errorf("error = %v, want ErrUnknownCategory", err)
	}
}

func TestClearScoped(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := repo.For("alice")
	bob := repo.For("bob")

	if _, err := alice.Add(ctx, 1, draft("doomed", 100)); err != nil {
		t.Fatal(err)
	}
	if _, err := alice.Add(ctx, 2, draft("safe account", 100)); err != nil {
		t.Fatal(err)
	}
	if _, err := bob.Add(ctx, 1, draft("safe identity", 100)); err != nil {
		t.Fatal(err)
	}

	if err := alice.Clear(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if txs, _ := alice.List(ctx, 1); len(txs) != 0 {
		t.Errorf("cleared partition still has %d", len(txs))
	}
	if txs, _ := alice.List(ctx, 2); len(txs) != 1 {
		t.Error("clear leaked into another account")
	}
	if txs, _ := bob.List(ctx, 1); len(txs) != 1 {
		t.Error("clear leaked into another identity")
	}
}

func TestConvertAll(t *testing.T) {
	ctx := context.Background()
	st := newTestRepo(t).For("alice")

	if _, err := st.Add(ctx, 1, draft("one dollar", 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Add(ctx, 1, draft("ten dollars", 10)); err != nil {
		t.Fatal(err)
	}

	if err := st.ConvertAll(ctx, 1, currency.USD, currency.IDR); err != nil {
		t.Fatal(err)
	}

	txs, _ := st.List(ctx, 1)
	want := map[string]string{"one dollar": "15800", "ten dollars": "158000"}
	for _, tx := range txs {
		if !tx.Amount.Equal(decimal.RequireFromString(want[tx.Description])) {
			t.Errorf("%s converted to %s, want %s", tx.Description, tx.Amount, want[tx.Description])
		}
	}

	if err := st.ConvertAll(ctx, 1, currency.USD, currency.Code("EUR")); err != core.ErrUnknownCurrency {
		t.Errorf("error = %v, want ErrUnknownCurrency", err)
	}
}

func TestCustomCategoriesPerIdentity(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := repo.For("alice")
	bob := repo.For("bob")

	created, err := alice.CreateCategory(ctx, core.Expense, "Gadgets", "🔌", "blue")
	if err != nil {
		t.Fatal(err)
	}

	has := func(st *Store) bool {
		cats, err := st.Categories(ctx, core.Expense)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range cats {
			if c.ID == created.ID {
				return true
			}
		}
		return false
	}

	if !has(alice) {
		t.Error("owner cannot see the created category")
	}
	if has(bob) {
		t.Error("custom category leaked to another identity")
	}

	// a foreign delete is the same no-op as an unknown id
	if err := bob.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if !has(alice) {
		t.Error("foreign delete removed the owner's category")
	}

	if err := alice.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if has(alice) {
		t.Error("category survived its owner's delete")
	}

	// transactions referencing the deleted id are rejected on new adds
	d := draft("orphan", 100)
	d.Category = created.ID
	if _, err := alice.Add(ctx, 1, d); err != core.ErrUnknownCategory {
		t.Errorf("error = %v, want ErrUnknownCategory", err)
	}
}
