// Package domain holds the BudgetWise value objects: Money, Category, Budget
// and Transaction. Constructors validate their invariants and return an
// error wrapping one of the Err* sentinels when an invariant is violated.
package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Currency is an ISO 4217 code supported by BudgetWise.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyINR Currency = "INR"
)

// CurrencyConfig describes how a currency's minor units are displayed.
type CurrencyConfig struct {
	Code          Currency
	Symbol        string
	DecimalPlaces int
}

var currencyConfigs = map[Currency]CurrencyConfig{
	CurrencyUSD: {Code: CurrencyUSD, Symbol: "$", DecimalPlaces: 2},
	CurrencyEUR: {Code: CurrencyEUR, Symbol: "€", DecimalPlaces: 2},
	CurrencyGBP: {Code: CurrencyGBP, Symbol: "£", DecimalPlaces: 2},
	CurrencyJPY: {Code: CurrencyJPY, Symbol: "¥", DecimalPlaces: 0},
	CurrencyINR: {Code: CurrencyINR, Symbol: "₹", DecimalPlaces: 2},
}

// DefaultCurrency is used when a caller does not specify one.
const DefaultCurrency = CurrencyUSD

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrCurrencyMismatch    = errors.New("cannot operate on different currencies")
)

// LookupCurrency returns the configuration for code.
func LookupCurrency(code Currency) (CurrencyConfig, error) {
	cfg, ok := currencyConfigs[code]
	if !ok {
		return CurrencyConfig{}, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return cfg, nil
}

// IsSupportedCurrency reports whether code is a known currency.
func IsSupportedCurrency(code string) bool {
	_, ok := currencyConfigs[Currency(code)]
	return ok
}

// Money is an immutable amount expressed in the smallest unit of its currency.
type Money struct {
	cents    int64
	currency Currency
}

// NewMoney builds a Money value, rejecting unknown currencies.
func NewMoney(cents int64, currency Currency) (Money, error) {
	if _, err := LookupCurrency(currency); err != nil {
		return Money{}, err
	}
	return Money{cents: cents, currency: currency}, nil
}

// FromMinorUnits is an alias of NewMoney kept for readability at call sites
// that already hold cents.
func FromMinorUnits(cents int64, currency Currency) (Money, error) {
	return NewMoney(cents, currency)
}

// FromAmount converts a major-unit amount (e.g. 12.34 dollars) into Money,
// rounding to the currency's precision.
func FromAmount(amount float64, currency Currency) (Money, error) {
	cfg, err := LookupCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, fmt.Errorf("invalid amount %v", amount)
	}
	scale := math.Pow10(cfg.DecimalPlaces)
	return Money{cents: int64(math.Round(amount * scale)), currency: currency}, nil
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 { return m.cents }

// Currency returns the currency code.
func (m Money) Currency() Currency { return m.currency }

func (m Money) config() CurrencyConfig {
	return currencyConfigs[m.currency]
}

// Amount returns the major-unit value for display.
func (m Money) Amount() float64 {
	return float64(m.cents) / math.Pow10(m.config().DecimalPlaces)
}

// Format renders the amount with the currency's precision, optionally
// prefixed by its symbol.
func (m Money) Format(withSymbol bool) string {
	cfg := m.config()
	formatted := strconv.FormatFloat(m.Amount(), 'f', cfg.DecimalPlaces, 64)
	if withSymbol {
		return cfg.Symbol + formatted
	}
	return formatted
}

// String implements fmt.Stringer.
func (m Money) String() string { return m.Format(true) }

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{cents: m.cents + other.cents, currency: m.currency}, nil
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{cents: m.cents - other.cents, currency: m.currency}, nil
}

func (m Money) IsPositive() bool { return m.cents > 0 }
func (m Money) IsNegative() bool { return m.cents < 0 }
func (m Money) IsZero() bool     { return m.cents == 0 }

// Equals compares amount and currency.
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents && m.currency == other.currency
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.cents > other.cents, nil
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.assertSameCurrency(other); err != nil {
		return false, err
	}
	return m.cents < other.cents, nil
}

func (m Money) assertSameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}
