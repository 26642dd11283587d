// Package money holds the decimal arithmetic and pt-BR currency formatting
// used for quote totals.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// nbsp separates the currency symbol from the amount, as browsers do for pt-BR.
const nbsp = "\u00a0"

// FromFloat converts a JSON number into an exact decimal using its shortest representation.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// LineTotal returns quantity × unitPrice.
func LineTotal(quantity, unitPrice float64) decimal.Decimal {
	return FromFloat(quantity).Mul(FromFloat(unitPrice))
}

// Cents rounds d to two decimal places, half away from zero.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SameCents reports whether a and b are equal once rounded to cents.
func SameCents(a, b decimal.Decimal) bool {
	return Cents(a).Equal(Cents(b))
}

// FormatBRL formats d as Brazilian reais: "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	rounded := Cents(d)
	fixed := rounded.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("R$")
	b.WriteString(nbsp)
	b.WriteString(groupThousands(intPart))
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// FormatBRLFloat is FormatBRL for float inputs.
func FormatBRLFloat(v float64) string {
	return FormatBRL(FromFloat(v))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	var b strings.Builder
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
