package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount. It encodes to JSON as a bare number, which is
// what the backend services send and expect.
type Money struct {
	d decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{d: d}
}

func MoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

func MoneyFromFloat(v float64) Money {
	return Money{d: decimal.NewFromFloat(v)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d: d}, nil
}

func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// Mul returns the amount multiplied by a quantity.
func (m Money) Mul(qty int) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(int64(qty)))}
}

func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

func (m Money) String() string {
	return m.d.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.d.UnmarshalJSON(data)
}

// FormatCLP renders an amount as Chilean pesos: whole units, "." as the
// thousands separator and a leading "$". 35000 becomes "$35.000".
func FormatCLP(m Money) string {
	digits := m.d.RoundBank(0).Abs().StringFixed(0)

	var b strings.Builder
	if m.d.RoundBank(0).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
