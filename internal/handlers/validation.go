package handlers

import (
	"fmt"

	"dungeondesk/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// validateStruct runs validator tags over a request DTO and converts any
// violations into a field-keyed validation error.
func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewInternal(err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
	}
	return apperrors.NewValidation(fields)
}
