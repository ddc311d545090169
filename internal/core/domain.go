package core

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

const (
	// MaxDescriptionLen caps transaction descriptions.
	MaxDescriptionLen = 200

	// MaxAccounts is the number of transaction partitions per identity.
	MaxAccounts = 3
)

// MaxAmount is the upper bound for a single transaction amount.
var MaxAmount = decimal.NewFromInt(999_999_999)

type (
	// Type classifies a transaction as money in or money out. It is fixed at
	// creation and only changes through an explicit update.
	Type string

	// Transaction is one recorded money movement. Amount is denominated in
	// the ledger's currently stored currency, which is not necessarily the
	// display currency.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        Type            `json:"type"`
		Category    string          `json:"category"`
		Date        time.Time       `json:"date"`
	}

	// Category labels transactions. Built-ins use short fixed ids; custom
	// categories carry the "custom_" prefix so the two can never collide.
	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
)

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

// ValidAccount reports whether n names one of the fixed account partitions.
func ValidAccount(n int) bool {
	return n >= 1 && n <= MaxAccounts
}

// ValidateAmount checks the 0 < amount <= MaxAmount range.
func ValidateAmount(a decimal.Decimal) error {
	if a.Sign() <= 0 || a.GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDescription trims d and checks its length in characters, not
// bytes, so multi-byte text gets the full limit. The trimmed value is
// returned so callers store the canonical form.
func ValidateDescription(d string) (string, error) {
	d = strings.TrimSpace(d)
	if utf8.RuneCountInString(d) > MaxDescriptionLen {
		return "", ErrDescriptionTooLong
	}
	return d, nil
}

// Validate checks every data-model constraint except category resolution,
// which needs the owning store's registry.
func (t Transaction) Validate() error {
	if _, err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
