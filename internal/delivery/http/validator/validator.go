// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	"strings"

	domainerrors "catalog/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

type echoValidator struct {
	validate *validator.Validate
}

// New builds the request validator installed on the Echo server.
func New() *echoValidator {
	return &echoValidator{validate: validator.New()}
}

// Validate runs struct validation and folds every field violation into a
// single client-facing error.
func (v *echoValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	details := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, describeFieldError(fieldErr))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(details, "; "))
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "min":
		return field + " must be at least " + fieldErr.Param() + " characters"
	case "max":
		return field + " must be at most " + fieldErr.Param() + " characters"
	case "gte":
		return field + " must be greater than or equal to " + fieldErr.Param()
	case "oneof":
		return field + " must be one of: " + fieldErr.Param()
	default:
		return field + " failed validation on " + fieldErr.Tag()
	}
}
