package mutate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CategoryInput is the user-facing payload for creating a category.
// ParentID "" creates a root; Position -1 appends to the end of the sibling group.
type CategoryInput struct {
	Name     string  `validate:"required,max=200"`
	Color    string  `validate:"omitempty,max=32"`
	Icon     *string `validate:"omitempty,max=16"`
	ParentID string
	Position int `validate:"min=-1"`
}

// CategoryUpdate carries the editable display fields; nil fields are left untouched.
type CategoryUpdate struct {
	Name  *string `validate:"omitempty,max=200"`
	Color *string `validate:"omitempty,max=32"`
	Icon  *string `validate:"omitempty,max=16"`
}

type tagInput struct {
	Name string `validate:"required,max=100"`
}

// validateStruct runs the struct's validation tags and returns the first failure.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return &ValidationError{Field: strings.ToLower(e.Field()), Message: formatFieldError(e)}
	}
	return &ValidationError{Message: err.Error()}
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "dive":
		return fmt.Sprintf("%s contains invalid values", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// requireName rejects a name that is empty after trimming.
func requireName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	}
	return nil
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("%s id is required", kind)}
	}
	return nil
}
