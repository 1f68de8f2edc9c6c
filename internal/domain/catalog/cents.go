package catalog

import (
	"github.com/shopspring/decimal"
)

// Cents is a price in integer minor units (USD cents).
type Cents int64

// FromDecimal rounds d to two places and converts it to cents.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Shift(2).IntPart())
}

// Dollars converts a dollar amount such as 49.99 to cents.
func Dollars(amount float64) Cents {
	return FromDecimal(decimal.NewFromFloat(amount))
}

// ParseDollars parses a decimal dollar string such as "57.5".
func ParseDollars(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return FromDecimal(d), nil
}

// Decimal returns the amount in dollars.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float returns the amount in dollars as a float, for display and JSON only.
func (c Cents) Float() float64 {
	return c.Decimal().InexactFloat64()
}

func (c Cents) String() string {
	return "$" + c.Decimal().StringFixed(2)
}
