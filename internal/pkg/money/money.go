package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Rounder rounds amounts half-up (away from zero) to a fixed number of
// decimal places.
type Rounder struct {
	scale int32
}

func NewRounder(scale int32) Rounder {
	return Rounder{scale: scale}
}

func (r Rounder) Scale() int32 {
	return r.scale
}

func (r Rounder) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(r.scale)
}

// Percent returns base * pct / 100 rounded to the rounder's scale.
func (r Rounder) Percent(base, pct decimal.Decimal) decimal.Decimal {
	return r.Round(base.Mul(pct).Div(hundred))
}

// Sum adds the given amounts and rounds the total.
func (r Rounder) Sum(amounts ...decimal.Decimal) decimal.Decimal {
	return r.Round(decimal.Sum(decimal.Zero, amounts...))
}

// IsNegative reports whether any of the amounts is below zero.
func IsNegative(amounts ...decimal.Decimal) bool {
	for _, a := range amounts {
		if a.IsNegative() {
			return true
		}
	}
	return false
}
