package editor

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/snipai/snipai/internal/client/models"
)

// ValidationError blocks a save before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidationError reports whether err is a client-side validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// requiredFields is the validated subset of the draft. Only title and code
// are mandatory; everything else may stay empty.
type requiredFields struct {
	Title string `validate:"required"`
	Code  string `validate:"required"`
}

var fieldMessages = map[string]string{
	"Title": "Title is required",
	"Code":  "Code cannot be empty",
}

func validateDraft(v *validator.Validate, fields models.SnippetFields) error {
	err := v.Struct(requiredFields{Title: fields.Title, Code: fields.Code})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		return &ValidationError{Field: field, Message: fieldMessages[field]}
	}
	return err
}
