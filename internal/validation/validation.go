// Package validation wraps go-playground/validator with the tags and messages
// used by request inputs, and reports failures as apperr validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"tourbooking/internal/apperr"
)

var validate = newValidator()

// Money amounts are stored as NUMERIC(12,2).
const (
	moneyScale         = 2
	moneyIntegerDigits = 10
)

var moneyLimit = decimal.New(1, moneyIntegerDigits)

// IsMoney reports whether s is a non-negative decimal that fits NUMERIC(12,2)
// without rounding.
func IsMoney(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return false
	}
	return d.LessThan(moneyLimit) && d.Equal(d.Round(moneyScale))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return IsMoney(fl.Field().String())
	})
	return v
}

// Struct validates s and returns an *apperr.Error listing every offending
// field, or nil.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("", err.Error())
	}
	fields := Fields(verrs)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return apperr.Validation("", "invalid "+strings.Join(names, ", "), fields...)
}

func Fields(verrs validator.ValidationErrors) []apperr.FieldError {
	out := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperr.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "money":
		return "must be a non-negative amount with at most 10 digits before and 2 after the decimal point"
	case "url":
		return "must be an absolute URL"
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "uuid", "uuid4":
		return "must be a UUID"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
