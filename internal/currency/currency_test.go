package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	for _, code := range []string{"USD", "IDR", "JPY"} {
		if _, err := Parse(code); err != nil {
			t.Errorf("Parse(%q) failed: %v", code, err)
		}
	}
	for _, code := range []string{"EUR", "usd", ""} {
		if _, err := Parse(code); err == nil {
			t.Errorf("Parse(%q) should fail", code)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		from   Code
		to     Code
		want   string
	}{
		{"usd to idr", "1", USD, IDR, "15800"},
		{"usd to jpy", "1", USD, JPY, "150"},
		{"idr to usd", "15800", IDR, USD, "1"},
		{"jpy to idr", "150", JPY, IDR, "15800"},
		{"idr to jpy rounds whole", "100", IDR, JPY, "1"},
		{"usd to usd identity", "123.456", USD, USD, "123.456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Convert(%s, %s, %s) = %s, want %s",
					tt.amount, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvertIdentitySkipsRounding(t *testing.T) {
	// identity conversion must not apply the target rounding policy
	amount := decimal.RequireFromString("10.55")
	got, err := Convert(amount, JPY, JPY)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(amount) {
		t.Errorf("identity conversion changed the amount: %s", got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	one := decimal.NewFromInt(1)
	idr, err := Convert(one, USD, IDR)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Convert(idr, IDR, USD)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(one) {
		t.Errorf("1 USD -> IDR -> USD = %s, want 1", back)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	if _, err := Convert(decimal.NewFromInt(1), USD, Code("EUR")); err == nil {
		t.Error("expected error for unknown target currency")
	}
	if _, err := Convert(decimal.NewFromInt(1), Code("EUR"), USD); err == nil {
		t.Error("expected error for unknown source currency")
	}
	if _, err := Convert(decimal.NewFromInt(1), Code("EUR"), Code("EUR")); err == nil {
		t.Error("identity conversion must still reject unknown codes")
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   Code
		want   string
	}{
		{"usd two decimals", "10.999", USD, "11.00"},
		{"idr whole units", "10.4", IDR, "10"},
		{"jpy whole units", "10.5", JPY, "11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Round(decimal.RequireFromString(tt.amount), tt.code)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Round(%s, %s) = %s, want %s", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatter(t *testing.T) {
	tests := []struct {
		code   Code
		amount string
		want   string
	}{
		{USD, "1234.5", "$1,234.50"},
		{IDR, "15800000", "Rp15,800,000"},
		{JPY, "1500", "¥1,500"},
		{USD, "0.5", "$0.50"},
	}

	for _, tt := range tests {
		f, err := NewFormatter(tt.code)
		if err != nil {
			t.Fatalf("NewFormatter(%s): %v", tt.code, err)
		}
		if got := f.Format(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("Format(%s, %s) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}
