package exchangerate

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// iso4217MinorUnits lists the ISO 4217 minor units of the codes whose CLDR
// standard digits disagree with ISO. CLDR drops the minor unit of currencies
// whose smallest coins are no longer in use, ISO keeps it.
var iso4217MinorUnits = map[CurrencyCode]int32{
	"AFN": 2,
	"ALL": 2,
	"IQD": 3,
	"IRR": 2,
	"KPW": 2,
	"LAK": 2,
	"LBP": 2,
	"MGA": 2,
	"MMK": 2,
	"RSD": 2,
	"SLL": 2,
	"SOS": 2,
	"SYP": 2,
	"YER": 2,
}

// MinorUnits returns the number of decimal places of code's ISO 4217 minor
// unit (2 for USD, 0 for JPY, 3 for BHD and IQD).
func MinorUnits(code CurrencyCode) (int32, error) {
	if scale, ok := iso4217MinorUnits[code]; ok {
		return scale, nil
	}
	unit, err := currency.ParseISO(code.String())
	if err != nil {
		return 0, &UnsupportedCurrencyError{Code: code}
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

// Money is an amount counted in minor units of a currency.
type Money struct {
	minor    decimal.Decimal
	currency CurrencyCode
	scale    int32
}

// NewMoney builds Money from an integer number of minor units, so
// NewMoney(150, "USD") is 1.50 USD.
func NewMoney(minor int64, code CurrencyCode) (Money, error) {
	scale, err := MinorUnits(code)
	if err != nil {
		return Money{}, err
	}
	return Money{minor: decimal.NewFromInt(minor), currency: code, scale: scale}, nil
}

// Multiply scales m by rate and rounds half away from zero to a whole minor unit.
func (m Money) Multiply(rate decimal.Decimal) Money {
	return Money{minor: m.minor.Mul(rate).Round(0), currency: m.currency, scale: m.scale}
}

func (m Money) Currency() CurrencyCode { return m.currency }

// Minor is the amount in minor units.
func (m Money) Minor() decimal.Decimal { return m.minor }

// Decimal is the amount in major units.
func (m Money) Decimal() decimal.Decimal { return m.minor.Shift(-m.scale) }

func (m Money) Float64() float64 { return m.Decimal().InexactFloat64() }

// String formats the amount with exactly the currency's minor-unit digits.
func (m Money) String() string { return m.Decimal().StringFixed(m.scale) }

// MarshalJSON writes a JSON number such as 0.80.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}
