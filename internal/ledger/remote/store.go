package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneydrain/internal/category"
	"moneydrain/internal/core"
	"moneydrain/internal/currency"
	"moneydrain/internal/events"
	"moneydrain/internal/ledger"
	"moneydrain/internal/log"
)

// Store is the remote ledger scoped to one authenticated identity. Ownership
// is enforced in every statement's WHERE clause, so a missing record and a
// foreign record are indistinguishable to the caller.
type Store struct {
	repo   *Repository
	userID string
}

var _ ledger.Store = (*Store)(nil)

// unavailable tags an infrastructure failure as a connectivity-class error.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, core.ErrUnavailable, err)
}

// List implements ledger.Store, newest first.
func (s *Store) List(ctx context.Context, account int) ([]core.Transaction, error) {
	if !core.ValidAccount(account) {
		return nil, core.ErrInvalidAccount
	}
	rows, err := s.repo.db.QueryContext(ctx, `
		SELECT id, description, amount, type, category, date
		FROM transactions
		WHERE user_id = ? AND account = ?
		ORDER BY rowid DESC`,
		s.userID, account)
	if err != nil {
		return nil, unavailable("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list transactions", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(r rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var amount, typ, date string
	if err := r.Scan(&t.ID, &t.Description, &amount, &typ, &t.Category, &date); err != nil {
		return core.Transaction{}, err
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	d, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	t.Amount = a
	t.Type = core.Type(typ)
	t.Date = d
	return t, nil
}

// Add implements ledger.Store. Validation runs here regardless of what the
// caller already checked.
func (s *Store) Add(ctx context.Context, account int, d ledger.Draft) (core.Transaction, error) {
	if !core.ValidAccount(account) {
		return core.Transaction{}, core.ErrInvalidAccount
	}
	d, err := d.Validate(time.Now())
	if err != nil {
		return core.Transaction{}, err
	}
	reg, err := s.registry(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	if !reg.Known(d.Category) {
		return core.Transaction{}, core.ErrUnknownCategory
	}

	t := core.Transaction{
		ID:          uuid.NewString(),
		Description: d.Description,
		Amount:      d.Amount,
		Type:        d.Type,
		Category:    d.Category,
		Date:        d.Date,
	}
	_, err = s.repo.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, account, description, amount, type, category, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, s.userID, account, t.Description, t.Amount.String(), string(t.Type), t.Category,
		t.Date.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.Transaction{}, unavailable("insert transaction", err)
	}

	s.publish(ctx, events.KindTransactionCreated, account, t.ID)
	slog.InfoContext(ctx, "Transaction saved",
		log.FieldTransactionID, t.ID,
		log.FieldAccount, account,
		"type", string(t.Type),
		log.FieldCategory, t.Category)
	return t, nil
}

// Update implements ledger.Store. Reads the row under the ownership check,
// applies the patch and writes it back inside one transaction.
func (s *Store) Update(ctx context.Context, id string, p ledger.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Category != nil {
		reg, err := s.registry(ctx)
		if err != nil {
			return err
		}
		if !reg.Known(*p.Category) {
			return core.ErrUnknownCategory
		}
	}

	tx, err := s.repo.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin update", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, description, amount, type, category, date
		FROM transactions
		WHERE id = ? AND user_id = ?`,
		id, s.userID)
	current, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return unavailable("load transaction", err)
	}

	next := p.Apply(current)
	if p.Description != nil {
		desc, _ := core.ValidateDescription(*p.Description)
		next.Description = desc
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount = ?, type = ?, category = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		next.Description, next.Amount.String(), string(next.Type), next.Category,
		next.Date.UTC().Format(time.RFC3339Nano), id, s.userID)
	if err != nil {
		return unavailable("update transaction", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit update", err)
	}

	s.publish(ctx, events.KindTransactionUpdated, 0, id)
	return nil
}

// Remove implements ledger.Store.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.repo.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`,
		id, s.userID)
	if err != nil {
		return unavailable("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete transaction", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	s.publish(ctx, events.KindTransactionDeleted, 0, id)
	return nil
}

// Clear implements ledger.Store: one partition, one statement, atomic.
func (s *Store) Clear(ctx context.Context, account int) error {
	if !core.ValidAccount(account) {
		return core.ErrInvalidAccount
	}
	_, err := s.repo.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND account = ?`,
		s.userID, account)
	if err != nil {
		return unavailable("clear account", err)
	}
	s.publish(ctx, events.KindAccountCleared, account, "")
	return nil
}

// ConvertAll implements ledger.Store. Rates are derived here from the
// currency table, never taken from the client, and the rewrite commits as
// one transaction or not at all.
func (s *Store) ConvertAll(ctx context.Context, account int, from, to currency.Code) error {
	if !core.ValidAccount(account) {
		return core.ErrInvalidAccount
	}
	if _, err := currency.Rate(from); err != nil {
		return err
	}
	if _, err := currency.Rate(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	tx, err := s.repo.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin convert", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, amount FROM transactions
		WHERE user_id = ? AND account = ?`,
		s.userID, account)
	if err != nil {
		return unavailable("load amounts", err)
	}

	type pending struct {
		id     string
		amount decimal.Decimal
	}
	var updates []pending
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return unavailable("scan amount", err)
		}
		a, err := decimal.NewFromString(raw)
		if err != nil {
			rows.Close()
			return fmt.Errorf("parse stored amount %q: %w", raw, err)
		}
		converted, err := currency.Convert(a, from, to)
		if err != nil {
			rows.Close()
			return err
		}
		updates = append(updates, pending{id: id, amount: converted})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return unavailable("load amounts", err)
	}
	rows.Close()

	for _, u := range updates {
		_, err := tx.ExecContext(ctx,
			`UPDATE transactions SET amount = ? WHERE id = ? AND user_id = ?`,
			u.amount.String(), u.id, s.userID)
		if err != nil {
			return unavailable("rewrite amount", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit convert", err)
	}

	s.publish(ctx, events.KindAccountConverted, account, "")
	slog.InfoContext(ctx, "Converted account amounts",
		log.FieldAccount, account,
		"from", string(from),
		"to", string(to),
		"rewritten", len(updates))
	return nil
}

// Categories implements ledger.Store.
func (s *Store) Categories(ctx context.Context, t core.Type) ([]core.Category, error) {
	if !t.Valid() {
		return nil, core.ErrInvalidType
	}
	reg, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	return reg.List(t), nil
}

// CreateCategory implements ledger.Store.
func (s *Store) CreateCategory(ctx context.Context, t core.Type, name, icon, color string) (core.Category, error) {
	if !t.Valid() {
		return core.Category{}, core.ErrInvalidType
	}
	name, err := category.ValidateCustom(name, icon, color)
	if err != nil {
		return core.Category{}, err
	}
	c := core.Category{ID: category.NewCustomID(), Name: name, Icon: icon, Color: color}
	_, err = s.repo.db.ExecContext(ctx, `
		INSERT INTO custom_categories (id, user_id, type, name, icon, color)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, s.userID, string(t), c.Name, c.Icon, c.Color)
	if err != nil {
		return core.Category{}, unavailable("insert category", err)
	}
	return c, nil
}

// DeleteCategory implements ledger.Store. The ownership condition makes
// foreign and unknown ids the same no-op; built-ins are never stored here,
// so they cannot match.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	_, err := s.repo.db.ExecContext(ctx,
		`DELETE FROM custom_categories WHERE id = ? AND user_id = ?`,
		id, s.userID)
	if err != nil {
		return unavailable("delete category", err)
	}
	return nil
}

// registry builds the identity's effective category view.
func (s *Store) registry(ctx context.Context) (*category.Registry, error) {
	rows, err := s.repo.db.QueryContext(ctx, `
		SELECT id, type, name, icon, color
		FROM custom_categories
		WHERE user_id = ?
		ORDER BY rowid`,
		s.userID)
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	defer rows.Close()

	var expense, income []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.ID, &typ, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if core.Type(typ) == core.Income {
			income = append(income, c)
		} else {
			expense = append(expense, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list categories", err)
	}
	return category.NewRegistry(expense, income), nil
}

// publish emits a ledger event; failures are logged, never propagated, so a
// committed mutation stays committed.
func (s *Store) publish(ctx context.Context, kind string, account int, transactionID string) {
	if s.repo.events == nil {
		return
	}
	e := events.NewLedgerEvent(kind, s.userID, account, transactionID)
	if err := s.repo.events.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"kind", kind,
			log.FieldError, err)
	}
}
