package validation

import (
	"fmt"

	"github.com/jmcelroy/docent/models"
)

// MalformedInputError reports a payload that is not a JSON object at all.
// Nothing downstream of the parser runs when this is returned.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("invalid JSON format: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// StructuralErrors reports every structural violation found in a single pass.
// The document was parseable JSON but does not have the shape of a course.
type StructuralErrors struct {
	Errors []models.FieldError
}

func (e *StructuralErrors) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("course failed structural validation: %s: %s", e.Errors[0].Path, e.Errors[0].Message)
	}
	return fmt.Sprintf("course failed structural validation with %d errors", len(e.Errors))
}

// BusinessRuleErrors reports rule violations found on a structurally sound
// document, again collected exhaustively rather than fail-fast.
type BusinessRuleErrors struct {
	Errors []models.FieldError
}

func (e *BusinessRuleErrors) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("course failed business validation: %s: %s", e.Errors[0].Path, e.Errors[0].Message)
	}
	return fmt.Sprintf("course failed business validation with %d errors", len(e.Errors))
}
