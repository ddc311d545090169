// Package currency converts amounts between the supported display currencies.
// Everything here is pure: rates are fixed, and no function inspects the
// ledger.
package currency

import (
	"github.com/shopspring/decimal"

	"moneydrain/internal/core"
)

const (
	USD Code = "USD"
	IDR Code = "IDR"
	JPY Code = "JPY"
)

type (
	// Code names a supported currency.
	Code string

	// Info describes a currency for display purposes.
	Info struct {
		Code   Code   `json:"code"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}
)

var infos = map[Code]Info{
	USD: {Code: USD, Symbol: "$", Name: "US Dollar"},
	IDR: {Code: IDR, Symbol: "Rp", Name: "Indonesian Rupiah"},
	JPY: {Code: JPY, Symbol: "¥", Name: "Japanese Yen"},
}

// Exchange rates expressed relative to USD.
var rates = map[Code]decimal.Decimal{
	USD: decimal.NewFromInt(1),
	IDR: decimal.NewFromInt(15800),
	JPY: decimal.NewFromInt(150),
}

// Rates at or above this threshold belong to historically zero-decimal
// currencies and round to whole units.
var wholeUnitThreshold = decimal.NewFromInt(100)

// Parse validates a currency code.
func Parse(s string) (Code, error) {
	c := Code(s)
	if _, ok := rates[c]; !ok {
		return "", core.ErrUnknownCurrency
	}
	return c, nil
}

// Describe returns display metadata for c.
func Describe(c Code) (Info, error) {
	info, ok := infos[c]
	if !ok {
		return Info{}, core.ErrUnknownCurrency
	}
	return info, nil
}

// Rate returns c's fixed exchange rate relative to USD.
func Rate(c Code) (decimal.Decimal, error) {
	r, ok := rates[c]
	if !ok {
		return decimal.Decimal{}, core.ErrUnknownCurrency
	}
	return r, nil
}

// Round applies c's rounding policy: whole units for zero-decimal currencies
// (rate >= 100), two decimal places otherwise.
func Round(amount decimal.Decimal, c Code) (decimal.Decimal, error) {
	r, err := Rate(c)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if r.GreaterThanOrEqual(wholeUnitThreshold) {
		return amount.Round(0), nil
	}
	return amount.Round(2), nil
}

// Convert translates amount from one currency to another through the USD
// reference unit, then applies the target currency's rounding policy.
// Identity when from == to: the amount passes through untouched.
func Convert(amount decimal.Decimal, from, to Code) (decimal.Decimal, error) {
	if from == to {
		if _, err := Rate(from); err != nil {
			return decimal.Decimal{}, err
		}
		return amount, nil
	}
	fromRate, err := Rate(from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toRate, err := Rate(to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	converted := amount.Div(fromRate).Mul(toRate)
	return Round(converted, to)
}
