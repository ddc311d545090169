package core

import "errors"

// Validation failures. Reported synchronously, never partially applied.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownCurrency    = errors.New("unknown currency")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrNameTooLong        = errors.New("category name too long")
	ErrIconTooLong        = errors.New("category icon too long")
	ErrColorTooLong       = errors.New("category color too long")
)

// ErrNotFound covers both "does not exist" and "not owned by the caller".
// The two are deliberately conflated so foreign record ids stay unguessable.
var ErrNotFound = errors.New("not found")

// ErrUnavailable marks a remote-mode call that could not complete. The store
// never retries internally.
var ErrUnavailable = errors.New("ledger backend unavailable")

var validationErrs = []error{
	ErrInvalidAmount,
	ErrDescriptionTooLong,
	ErrInvalidType,
	ErrInvalidDate,
	ErrInvalidAccount,
	ErrUnknownCategory,
	ErrUnknownCurrency,
	ErrInvalidPeriod,
	ErrNameTooLong,
	ErrIconTooLong,
	ErrColorTooLong,
}

// IsValidation reports whether err is (or wraps) a validation failure.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
