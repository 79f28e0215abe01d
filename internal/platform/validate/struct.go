// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// structValidator is safe for concurrent use and caches struct metadata.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	engine := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names instead of Go field names.
	engine.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// slug: letters, digits, hyphens and underscores.
	mustRegister(engine, "slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})

	// username: letters, digits and @.+-_ only.
	mustRegister(engine, "username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})

	// year: 1900 up to the current calendar year.
	mustRegister(engine, "year", func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()
		return year >= MinYear && year <= int64(time.Now().Year())
	})

	return engine
}

// mustRegister adds a custom tag and panics at init when the registration is rejected.
func mustRegister(engine *validator.Validate, tag string, fn validator.Func) {
	if err := engine.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

/*
Struct validates a decoded request payload against its `validate` tags.

Parameters:
  - payload: any (pointer to a struct)

Returns:
  - error: apperr VALIDATION_ERROR with one detail per failing field, or nil
*/
func Struct(payload any) error {
	err := structValidator.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldError.Field(),
			Message: messageFor(fieldError),
		})
	}

	return apperr.ValidationError("Validation failed", details...)
}

// messageFor renders a client-facing message for a failed tag.
func messageFor(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Minimum %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("Maximum %s characters", fieldError.Param())
	case "gte", "lte":
		return fmt.Sprintf("Ensure this value is %s %s", comparator(fieldError.Tag()), fieldError.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fieldError.Param(), " ", ", "))
	case "slug":
		return "Must be a valid slug (letters, digits, hyphens, underscores)"
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "year":
		return fmt.Sprintf("%v is not a correct year!", fieldError.Value())
	case "ne":
		return fmt.Sprintf("Value %q is not allowed", fieldError.Param())
	default:
		return fmt.Sprintf("Invalid %s field", fieldError.Field())
	}
}

func comparator(tag string) string {
	if tag == "gte" {
		return "greater than or equal to"
	}
	return "less than or equal to"
}
