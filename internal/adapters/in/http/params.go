package http

import (
	"bytes"
	"encoding/json"
	"strings"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pathUUID binds a simple style path parameter.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(raw[:])
}

func pathString(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

// rawAmount decodes a JSON value kept raw so numbers keep their exact digits.
// null and absent yield nil.
func rawAmount(raw json.RawMessage) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(trimmed)
	}
	return v
}

// moneyFromRaw reads an optional amount that must be a JSON number or numeric string.
func moneyFromRaw(param string, raw json.RawMessage) (*kernel.Money, error) {
	var text string
	switch v := rawAmount(raw).(type) {
	case nil:
		return nil, nil //nolint:nilnil // absent amount
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
		if text == "" {
			return nil, nil //nolint:nilnil // absent amount
		}
	default:
		return nil, errs.NewValueIsInvalidError(param)
	}

	m, err := kernel.MoneyFromString(text)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return &m, nil
}
