package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"gymaccess/internal/apperror"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

var Validate = validator.New()

// Check validates v and converts failures into an apperror.KindValidation error.
func Check(op string, v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(op, apperror.FieldError{Field: "body", Message: err.Error()})
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: "failed on " + fe.Tag()})
	}
	return apperror.Validation(op, fields...)
}
