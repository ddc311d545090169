// Package category defines the built-in category sets and merges them with a
// user's custom categories into one effective list per transaction type.
package category

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"moneydrain/internal/core"
)

const (
	// CustomPrefix distinguishes user-created category ids from built-ins.
	CustomPrefix = "custom_"

	MaxNameLen  = 50
	MaxIconLen  = 10
	MaxColorLen = 50
)

// Other is the reserved fallback category. Resolve returns it for any id
// that no longer matches a built-in or custom category, so display code
// never has to handle a missing category.
var Other = core.Category{ID: "other", Name: "Other", Icon: "📦", Color: "oklch(0.55 0 0)"}

var builtinExpense = []core.Category{
	{ID: "food", Name: "Food & Dining", Icon: "🍕", Color: "oklch(0.7 0.18 60)"},
	{ID: "transport", Name: "Transport", Icon: "🚗", Color: "oklch(0.55 0.2 200)"},
	{ID: "shopping", Name: "Shopping", Icon: "🛍️", Color: "oklch(0.65 0.2 280)"},
	{ID: "entertainment", Name: "Entertainment", Icon: "🎬", Color: "oklch(0.6 0.22 330)"},
	{ID: "bills", Name: "Bills & Utilities", Icon: "💡", Color: "oklch(0.65 0.24 25)"},
	{ID: "health", Name: "Health", Icon: "💊", Color: "oklch(0.65 0.24 145)"},
	Other,
}

var builtinIncome = []core.Category{
	{ID: "salary", Name: "Salary", Icon: "💰", Color: "oklch(0.65 0.24 145)"},
	{ID: "freelance", Name: "Freelance", Icon: "💼", Color: "oklch(0.6 0.2 250)"},
	{ID: "investment", Name: "Investment", Icon: "📈", Color: "oklch(0.7 0.2 100)"},
	{ID: "gift", Name: "Gift", Icon: "🎁", Color: "oklch(0.65 0.22 0)"},
	Other,
}

// Builtin returns the fixed category list for a type. The slice is a copy;
// built-ins themselves are never mutated or deleted.
func Builtin(t core.Type) []core.Category {
	switch t {
	case core.Income:
		return append([]core.Category(nil), builtinIncome...)
	default:
		return append([]core.Category(nil), builtinExpense...)
	}
}

// IsBuiltin reports whether id names a built-in category of either type.
func IsBuiltin(id string) bool {
	for _, c := range builtinExpense {
		if c.ID == id {
			return true
		}
	}
	for _, c := range builtinIncome {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Registry is the effective category view for one ledger scope: the fixed
// built-ins plus that scope's custom categories, in creation order. It is a
// snapshot constructed by the owning store, not shared module state.
type Registry struct {
	customExpense []core.Category
	customIncome  []core.Category
}

// NewRegistry builds a registry over the given custom categories.
func NewRegistry(customExpense, customIncome []core.Category) *Registry {
	return &Registry{
		customExpense: customExpense,
		customIncome:  customIncome,
	}
}

// List returns built-ins for t followed by the customs for t.
func (r *Registry) List(t core.Type) []core.Category {
	out := Builtin(t)
	if r == nil {
		return out
	}
	switch t {
	case core.Income:
		return append(out, r.customIncome...)
	default:
		return append(out, r.customExpense...)
	}
}

// Resolve looks id up across both effective lists and falls back to Other.
// It never fails: a deleted or foreign category id still renders.
func (r *Registry) Resolve(id string) core.Category {
	for _, t := range []core.Type{core.Expense, core.Income} {
		for _, c := range r.List(t) {
			if c.ID == id {
				return c
			}
		}
	}
	return Other
}

// Known reports whether id resolves to a real category (not the fallback).
func (r *Registry) Known(id string) bool {
	if id == Other.ID {
		return true
	}
	return r.Resolve(id).ID == id
}

// ValidateCustom checks the length limits for a new custom category and
// returns the trimmed name. Limits count characters, not bytes, so an emoji
// icon spends one slot per rune rather than four.
func ValidateCustom(name, icon, color string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", core.ErrNameTooLong
	}
	if utf8.RuneCountInString(icon) > MaxIconLen {
		return "", core.ErrIconTooLong
	}
	if utf8.RuneCountInString(color) > MaxColorLen {
		return "", core.ErrColorTooLong
	}
	return name, nil
}

// NewCustomID mints a fresh custom category id. The prefix guarantees it can
// never collide with a built-in id.
func NewCustomID() string {
	return CustomPrefix + uuid.NewString()
}
