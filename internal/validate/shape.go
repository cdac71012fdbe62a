package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Shape checks the struct tags of request payloads (required, email, ranges)
// before the field values run through the text pipeline.
type Shape struct {
	validate *validator.Validate
}

// NewShape creates a Shape that reports fields by their json name.
func NewShape() *Shape {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" {
			return ""
		}

		if name == "" {
			return field.Name
		}

		return name
	})

	return &Shape{validate: v}
}

// Struct validates s and converts tag failures into FieldErrors.
func (s *Shape) Struct(dto any) error {
	err := s.validate.Struct(dto)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err //nolint:wrapcheck
	}

	fe := FieldErrors{}
	for _, fieldErr := range invalid {
		if _, exists := fe[fieldErr.Field()]; !exists {
			fe[fieldErr.Field()] = shapeMessage(fieldErr)
		}
	}

	return fe
}

func shapeMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min", "gte":
		return "Ensure this value is at least " + fieldErr.Param() + "."
	case "max", "lte":
		return "Ensure this value is at most " + fieldErr.Param() + "."
	case "oneof":
		return "Must be one of: " + fieldErr.Param() + "."
	case "eqfield":
		return "Must match " + fieldErr.Param() + "."
	}

	return "Invalid value."
}
