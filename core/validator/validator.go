package validator

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"smart-schedule/core/controller"
	"smart-schedule/core/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// EchoValidator plugs go-playground/validator into echo's c.Validate.
type EchoValidator struct{}

func New() *EchoValidator {
	return &EchoValidator{}
}

func (v *EchoValidator) Validate(i any) error {
	fields, err := Struct(i)
	if err != nil {
		return controller.NewErrorResponse(http.StatusBadRequest, errors.ErrInvalidRequestData, err.Error(), fields)
	}
	return nil
}

// Struct validates i and returns one entry per failing field.
func Struct(i any) ([]controller.ValidationError, error) {
	err := validate.Struct(i)
	if err == nil {
		return nil, nil
	}
	var vErr validator.ValidationErrors
	if !stderrors.As(err, &vErr) {
		return nil, err
	}

	fields := make([]controller.ValidationError, 0, len(vErr))
	names := make([]string, 0, len(vErr))
	for _, fe := range vErr {
		name := strings.ToLower(fe.Field())
		fields = append(fields, controller.NewValidationError(name, describe(fe)))
		names = append(names, name)
	}
	return fields, fmt.Errorf("invalid fields: %s", strings.Join(names, ", "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
