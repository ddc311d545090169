package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Formatter renders amounts in one currency. It is immutable after
// construction, so a single instance is safe to share across callers.
type Formatter struct {
	info     Info
	decimals int32
}

// NewFormatter builds a formatter for c.
func NewFormatter(c Code) (*Formatter, error) {
	info, err := Describe(c)
	if err != nil {
		return nil, err
	}
	var decimals int32 = 2
	r, _ := Rate(c)
	if r.GreaterThanOrEqual(wholeUnitThreshold) {
		decimals = 0
	}
	return &Formatter{info: info, decimals: decimals}, nil
}

// Format renders amount with the currency symbol, thousands grouping and the
// currency's decimal policy, e.g. "$1,234.50" or "Rp15,800".
func (f *Formatter) Format(amount decimal.Decimal) string {
	neg := amount.Sign() < 0
	s := amount.Abs().StringFixed(f.decimals)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(f.info.Symbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(fracPart)
	return b.String()
}

// Currency returns the formatter's currency metadata.
func (f *Formatter) Currency() Info {
	return f.info
}
