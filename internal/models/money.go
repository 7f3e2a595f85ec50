package models

import (
	"github.com/shopspring/decimal"
)

// Money is a decimal amount that always renders with exactly two fraction
// digits, matching the DECIMAL(10,2) storage. Plain decimal marshaling trims
// trailing zeros, which would turn 25.50 into "25.5" on the wire.
type Money struct {
	decimal.Decimal
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}
