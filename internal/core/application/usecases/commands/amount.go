package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// parseAmount accepts a JSON number, a numeric string or an integer. nil and a
// blank string mean "not given". Anything else is invalid; it is never coerced
// to zero.
func parseAmount(param string, raw any) (*kernel.Money, error) {
	var (
		money kernel.Money
		err   error
	)

	switch v := raw.(type) {
	case nil:
		return nil, nil
	case json.Number:
		money, err = kernel.MoneyFromString(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		money, err = kernel.MoneyFromString(s)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, fmt.Errorf("%v is not a finite number", v))
		}
		money, err = kernel.MoneyFromFloat(v)
	case int:
		money, err = kernel.NewMoney(decimal.NewFromInt(int64(v)))
	case int64:
		money, err = kernel.NewMoney(decimal.NewFromInt(v))
	case kernel.Money:
		money, err = v, v.Validate()
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause(param, fmt.Errorf("unsupported type %T", raw))
	}

	if err != nil {
		if errors.Is(err, errs.ErrValueIsOutOfRange) {
			return nil, errs.NewValueIsOutOfRangeErrorWithCause(param, raw, 0, kernel.MaxMoney.String(), err)
		}
		return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return &money, nil
}
