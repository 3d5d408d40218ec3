package util

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // validator caches struct metadata, one instance is enough
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct checks s against its validate tags. Violations come back as a
// 400 ResponseError naming the first offending field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return NewResponseError(http.StatusBadRequest, "invalid request")
	}

	first := validationErrors[0]
	switch first.Tag() {
	case "required":
		return NewResponseError(http.StatusBadRequest, "%s is required", first.Field())
	case "email":
		return NewResponseError(http.StatusBadRequest, "%s must be a valid email address", first.Field())
	case "min":
		return NewResponseError(http.StatusBadRequest, "%s must be at least %s characters", first.Field(), first.Param())
	case "max":
		return NewResponseError(http.StatusBadRequest, "%s must be at most %s characters", first.Field(), first.Param())
	case "oneof":
		return NewResponseError(http.StatusBadRequest, "%s must be one of: %s", first.Field(), first.Param())
	default:
		return NewResponseError(http.StatusBadRequest, "%s is invalid", first.Field())
	}
}

// ValidateVar checks a single value against a validate tag expression.
func ValidateVar(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return NewResponseError(http.StatusBadRequest, "%s is invalid", field)
	}
	return nil
}
