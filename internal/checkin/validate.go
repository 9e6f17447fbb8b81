package checkin

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"gymaccess/internal/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the field constraints of c and returns an apperror.KindValidation error.
func Validate(op string, c *CheckIn) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation(op, apperror.FieldError{Field: "check-in", Message: err.Error()})
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apperror.Validation(op, fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gtfield":
		return "exit time must be after entry time"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "required":
		return "is required"
	}
	return "is invalid"
}
