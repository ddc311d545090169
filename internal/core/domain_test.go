package core

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{"positive", decimal.NewFromInt(100), false},
		{"fractional", decimal.RequireFromString("0.01"), false},
		{"max", decimal.NewFromInt(999_999_999), false},
		{"zero", decimal.Zero, true},
		{"negative", decimal.NewFromInt(-5), true},
		{"over max", decimal.NewFromInt(1_000_000_000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAmount(%s) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	got, err := ValidateDescription("  coffee  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "coffee" {
		t.Errorf("expected trimmed description, got %q", got)
	}

	if _, err := ValidateDescription(strings.Repeat("x", MaxDescriptionLen+1)); err == nil {
		t.Error("expected error for oversized description")
	}
	if _, err := ValidateDescription(strings.Repeat("x", MaxDescriptionLen)); err != nil {
		t.Errorf("description at the limit should pass: %v", err)
	}
}

func TestValidateDescriptionCountsCharacters(t *testing.T) {
	// 200 CJK characters are 600 bytes but still within the limit
	cjk := strings.Repeat("日", MaxDescriptionLen)
	if _, err := ValidateDescription(cjk); err != nil {
		t.Errorf("multi-byte description at the limit should pass: %v", err)
	}
	if _, err := ValidateDescription(cjk + "日"); err == nil {
		t.Error("expected error one character past the limit")
	}
}

func TestTypeValid(t *testing.T) {
	if !Income.Valid() || !Expense.Valid() {
		t.Error("built-in types must be valid")
	}
	if Type("transfer").Valid() {
		t.Error("unknown type must be invalid")
	}
}

func TestValidAccount(t *testing.T) {
	for account := 1; account <= MaxAccounts; account++ {
		if !ValidAccount(account) {
			t.Errorf("account %d should be valid", account)
		}
	}
	for _, account := range []int{0, -1, MaxAccounts + 1} {
		if ValidAccount(account) {
			t.Errorf("account %d should be invalid", account)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:          "t1",
		Description: "lunch",
		Amount:      decimal.NewFromInt(50000),
		Type:        Expense,
		Category:    "food",
		Date:        time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	broken := valid
	broken.Date = time.Time{}
	if err := broken.Validate(); err == nil {
		t.Error("zero date should be rejected")
	}

	broken = valid
	broken.Type = "refund"
	if err := broken.Validate(); err == nil {
		t.Error("unknown type should be rejected")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ErrInvalidAmount) {
		t.Error("ErrInvalidAmount is a validation error")
	}
	if IsValidation(ErrNotFound) {
		t.Error("ErrNotFound is not a validation error")
	}
	if IsValidation(ErrUnavailable) {
		t.Error("ErrUnavailable is not a validation error")
	}
}
