package kernel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"orderreview/internal/pkg/errs"
	"orderreview/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of fractional digits kept for every amount.
	MoneyScale = 2

	// maxAmountLength bounds a decimal literal before it is parsed.
	maxAmountLength = 32
	// maxAmountExponent bounds the decimal exponent in both directions.
	maxAmountExponent = 32
)

// MaxMoney is the largest amount a numeric(14,2) column holds.
var MaxMoney = decimal.New(99_999_999_999_999, -MoneyScale)

// ErrMoneyIsNotConstructed is returned when a zero-value Money is used.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or MoneyFromString")

// Money is a non-negative amount in the store currency, rounded to MoneyScale digits.
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney checks that amount lies in [0, MaxMoney] and rounds it half away
// from zero.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if exp := amount.Exponent(); exp < -maxAmountExponent {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("more than %d fractional digits", maxAmountExponent))
	} else if exp > maxAmountExponent {
		return Money{}, errs.NewValueIsOutOfRangeError("amount exponent", exp, -maxAmountExponent, maxAmountExponent)
	}
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, MaxMoney.String())
	}

	rounded := amount.Round(MoneyScale)
	if rounded.GreaterThan(MaxMoney) {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, MaxMoney.String())
	}
	return Money{
		amount: rounded,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromString parses a decimal literal such as "49.99" or "1.5e2". Over
// long literals and extreme exponents are rejected before parsing.
func MoneyFromString(s string) (Money, error) {
	if len(s) > maxAmountLength {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("longer than %d characters", maxAmountLength))
	}
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
		}
		if exp < -maxAmountExponent || exp > maxAmountExponent {
			return Money{}, errs.NewValueIsOutOfRangeError("amount exponent", exp, -maxAmountExponent, maxAmountExponent)
		}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// MoneyFromFloat converts a float, for example a JSON number.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%v is not a finite number", f))
	}
	return NewMoney(decimal.NewFromFloat(f))
}

// ZeroMoney returns a constructed zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, guard: guard.NewConstructorGuard()}
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns the sum. Both operands are non-negative so the result is too,
// but it may exceed MaxMoney; see CheckMax.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), guard: guard.NewConstructorGuard()}
}

// Mul multiplies by a non-negative integer quantity. Like Add it may exceed MaxMoney.
func (m Money) Mul(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), guard: guard.NewConstructorGuard()}
}

// CheckMax reports a ValueIsOutOfRangeError naming param when m is larger than
// MaxMoney. Sums built with Add and Mul must pass it before they are stored.
func (m Money) CheckMax(param string) error {
	if m.amount.GreaterThan(MaxMoney) {
		return errs.NewValueIsOutOfRangeError(param, m.String(), 0, MaxMoney.String())
	}
	return nil
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Float64 is the JSON representation used by the HTTP API.
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

// String formats with exactly MoneyScale fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
