// Package ledger defines the dual-mode persistence contract. One interface
// covers both backing stores; the mode decision lives in a single
// composition point (internal/backend), never in scattered branches.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"moneydrain/internal/core"
	"moneydrain/internal/currency"
)

type (
	// Draft carries the caller-supplied fields for a new transaction.
	// A zero Date means "now".
	Draft struct {
		Description string
		Amount      decimal.Decimal
		Type        core.Type
		Category    string
		Date        time.Time
	}

	// Patch is a partial update: nil fields are left untouched. An update
	// either fully applies or has no effect.
	Patch struct {
		Description *string
		Amount      *decimal.Decimal
		Type        *core.Type
		Category    *string
		Date        *time.Time
	}

	// Store is the ledger contract shared by the local (anonymous) and
	// remote (authenticated) backing stores. Every operation addresses one
	// account partition of the owning identity and observes nothing else.
	Store interface {
		// List returns every transaction in the account partition.
		List(ctx context.Context, account int) ([]core.Transaction, error)

		// Add validates and records a new transaction.
		Add(ctx context.Context, account int, d Draft) (core.Transaction, error)

		// Update applies a partial patch. core.ErrNotFound when id does not
		// exist or is not owned by the caller.
		Update(ctx context.Context, id string, p Patch) error

		// Remove deletes one transaction, with the same ownership check.
		Remove(ctx context.Context, id string) error

		// Clear deletes every transaction in the account partition only.
		Clear(ctx context.Context, account int) error

		// ConvertAll rewrites every stored amount in the account through the
		// conversion algorithm, all-or-nothing. No-op when from == to.
		ConvertAll(ctx context.Context, account int, from, to currency.Code) error

		// Categories returns the effective category list for a type:
		// built-ins first, then customs in creation order.
		Categories(ctx context.Context, t core.Type) ([]core.Category, error)

		// CreateCategory mints a new custom category for a type.
		CreateCategory(ctx context.Context, t core.Type, name, icon, color string) (core.Category, error)

		// DeleteCategory removes a custom category. A no-op for ids that do
		// not exist, are foreign, or name a built-in. Transactions keep
		// their now-dangling category id; Resolve falls back to Other.
		DeleteCategory(ctx context.Context, id string) error
	}
)

// Validate checks a draft against the data-model constraints and returns the
// canonical form (trimmed description, defaulted date).
func (d Draft) Validate(now time.Time) (Draft, error) {
	desc, err := core.ValidateDescription(d.Description)
	if err != nil {
		return Draft{}, err
	}
	d.Description = desc
	if err := core.ValidateAmount(d.Amount); err != nil {
		return Draft{}, err
	}
	if !d.Type.Valid() {
		return Draft{}, core.ErrInvalidType
	}
	if d.Date.IsZero() {
		d.Date = now
	}
	return d, nil
}

// Validate checks the provided patch fields; absent fields are skipped.
func (p Patch) Validate() error {
	if p.Description != nil {
		if _, err := core.ValidateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Amount != nil {
		if err := core.ValidateAmount(*p.Amount); err != nil {
			return err
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return core.ErrInvalidType
	}
	if p.Date != nil && p.Date.IsZero() {
		return core.ErrInvalidDate
	}
	return nil
}

// Apply overlays the patch on top of t.
func (p Patch) Apply(t core.Transaction) core.Transaction {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}
