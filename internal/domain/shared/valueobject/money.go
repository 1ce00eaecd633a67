// Package valueobject holds immutable value types shared across aggregates.
package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is an ISO 4217 code accepted by the payment gateway.
type Currency string

const (
	GHS Currency = "GHS"
	NGN Currency = "NGN"
	USD Currency = "USD"
	ZAR Currency = "ZAR"
	KES Currency = "KES"
)

const DefaultCurrency = GHS

// minorScale is the number of minor units per major unit. Every currency the
// gateway settles in uses two decimal places.
var minorScale = map[Currency]int32{GHS: 2, NGN: 2, USD: 2, ZAR: 2, KES: 2}

var (
	ErrEmptyCurrency       = errors.New("currency cannot be empty")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// ParseCurrency normalises code and rejects currencies the store cannot charge in.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if c == "" {
		return "", ErrEmptyCurrency
	}
	if _, ok := minorScale[c]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return c, nil
}

// Money is an amount in a single currency. Operations return new values.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, cur Currency) (Money, error) {
	c, err := ParseCurrency(string(cur))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: c}, nil
}

// NewMoneyFromMinorUnits builds Money from an integer count of kobo/pesewas/cents.
func NewMoneyFromMinorUnits(minor int64, cur Currency) (Money, error) {
	c, err := ParseCurrency(string(cur))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: decimal.New(minor, -minorScale[c]), currency: c}, nil
}

func Zero(cur Currency) Money {
	return Money{amount: decimal.Zero, currency: cur}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }

// MinorUnits truncates to the currency's scale; sub-minor fractions are dropped.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(minorScale[m.currency]).IntPart()
}

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Times multiplies by a line quantity.
func (m Money) Times(qty int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty))), currency: m.currency}
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(minorScale[m.currency]), m.currency)
}

// Format renders the amount with the narrow currency symbol and the digit
// grouping of tag,
// e.g. "GH₵ 1,234.50" for English.
func (m Money) Format(tag language.Tag) string {
	unit, err := currency.ParseISO(string(m.currency))
	if err != nil {
		return m.String()
	}
	return message.NewPrinter(tag).Sprint(currency.NarrowSymbol(unit.Amount(m.amount.InexactFloat64())))
}
