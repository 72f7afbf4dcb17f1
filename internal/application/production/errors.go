package production

import (
	"errors"
	"strings"
)

// ValidationErrors is the list of human-readable problems found while
// validating an order-creation request. All checks run before the
// first error is reported, so the caller can show every problem at
// once. A request that fails validation never touches the database.
type ValidationErrors []string

// Error implements the error interface
func (e ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e, "; ")
}

// Messages returns the individual validation messages
func (e ValidationErrors) Messages() []string {
	return []string(e)
}

// AsValidationErrors extracts a ValidationErrors from an error chain,
// returning nil when the error is of a different kind.
func AsValidationErrors(err error) ValidationErrors {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}
