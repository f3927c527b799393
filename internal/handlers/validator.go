package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator plugs go-playground/validator into echo. Field errors are
// keyed by the JSON name of the field.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// FieldErrors maps field name to a message for every failed rule.
type FieldErrors map[string]string

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// bindAndValidate decodes the body into req and validates it, writing
// the error response itself. The returned bool is false when the
// handler should stop.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, errorJSON(c, http.StatusBadRequest, err.Error())
		}
		fields := FieldErrors{}
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = fieldMessage(fe)
			}
		}
		return false, validationError(c, fields)
	}
	return true, nil
}

func validationError(c echo.Context, fields FieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		"message": "validation failed",
		"errors":  fields,
	})
}
