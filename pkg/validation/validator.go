package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "equipment-access/pkg/errors"
)

// CustomValidator wraps validator for echo and the services.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator. Failures come back as *apperrors.ValidationError
// naming the first failing field by its json name.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return toValidationError(verrs[0])
	}
	return err
}

func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	registerNullTypes(v)

	// The server must not start with a half-registered rule set.
	if err := registerRules(v); err != nil {
		panic("validation rules registration failed: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

func toValidationError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return apperrors.RequiredField(field)
	case "custom_email", "email":
		return apperrors.NewValidationError(field, "invalid email format")
	case "max":
		return apperrors.NewValidationError(field, "must be at most %s characters", fe.Param())
	case "min", "gte":
		return apperrors.NewValidationError(field, "must be at least %s", fe.Param())
	case "gt":
		return apperrors.NewValidationError(field, "must be greater than %s", fe.Param())
	default:
		return apperrors.NewValidationError(field, "invalid value %v (%s)", fe.Value(), fe.Tag())
	}
}
