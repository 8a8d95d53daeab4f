package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

const maxBodyBytes = 1 << 20

// StrictJSONBinder decodes request bodies as JSON regardless of the
// Content-Type header and rejects unknown fields and trailing data.
type StrictJSONBinder struct{}

func (StrictJSONBinder) Bind(i any, c echo.Context) error {
	body := c.Request().Body
	if body == nil {
		return errInvalidPayload
	}

	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(i); err != nil {
		return payloadError(err)
	}
	if dec.More() {
		return errInvalidPayload
	}
	return nil
}

var errInvalidPayload = &domain.ValidationError{Reason: "invalid payload"}

// payloadError keeps the offending field name where encoding/json reports one.
func payloadError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field)
	}
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return &domain.ValidationError{Fields: []string{field}, Reason: fmt.Sprintf("unknown field %s", field)}
	}
	return errInvalidPayload
}

// bindAndValidate is the decode step every write handler starts with.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
