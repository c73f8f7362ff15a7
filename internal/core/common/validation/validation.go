package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/frahmantamala/pos-backoffice/internal"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// report json field names so details match the request payload
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// decimal.Decimal is a struct; expose it as a number so min/gt/gte work on it
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Struct runs tag validation and converts failures into a 400 AppError with field details.
func Struct(s interface{}) *apperrors.AppError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), apperrors.ErrCodeInvalidRequest)
	}

	details := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperrors.ValidationError{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
			Code:    string(apperrors.ErrCodeValidationFailed),
		})
	}

	return apperrors.NewValidationError("Validation failed", apperrors.ErrCodeValidationFailed).
		WithDetails(apperrors.ValidationErrors{Errors: details})
}

// fieldPath drops the root struct name: "CreateUserDTO.username" -> "username".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

// Builder collects hand-written rules that tags cannot express.
type Builder struct {
	errors []apperrors.ValidationError
}

func NewValidator() *Builder {
	return &Builder{errors: make([]apperrors.ValidationError, 0)}
}

// Check records message against field when ok is false.
func (b *Builder) Check(ok bool, field, message string, code apperrors.ErrorCode) *Builder {
	if !ok {
		b.errors = append(b.errors, apperrors.ValidationError{
			Field:   field,
			Message: message,
			Code:    string(code),
		})
	}
	return b
}

// Merge folds the details of an existing validation error into the builder.
func (b *Builder) Merge(err *apperrors.AppError) *Builder {
	if err == nil {
		return b
	}
	if details, ok := err.Details.(apperrors.ValidationErrors); ok {
		b.errors = append(b.errors, details.Errors...)
		return b
	}
	b.errors = append(b.errors, apperrors.ValidationError{Message: err.Message, Code: string(err.Code)})
	return b
}

func (b *Builder) Validate() *apperrors.AppError {
	if len(b.errors) == 0 {
		return nil
	}
	return apperrors.NewValidationError("Validation failed", apperrors.ErrCodeValidationFailed).
		WithDetails(apperrors.ValidationErrors{Errors: b.errors})
}
