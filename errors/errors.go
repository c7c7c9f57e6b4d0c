package errors

import (
	"strings"

	"github.com/pkg/errors"
)

// Errors accumulates failures across a multi-step operation, like validating
// a record or downloading several chunks, and reports them as one error
type Errors []error

// ErrIf appends an error with failureMessage when the condition is true.
// Returns the condition so checks can chain
func (e *Errors) ErrIf(condition bool, failureMessage string, formatArgs ...interface{}) bool {
	if condition {
		*e = append(*e, errors.Errorf(failureMessage, formatArgs...))
	}
	return condition
}

// AddErr appends err if it is not nil, flattening nested Errors.
// Returns true if err was nil
func (e *Errors) AddErr(err error) bool {
	if err != nil {
		if errs, ok := err.(Errors); ok {
			*e = append(*e, errs...)
		} else {
			*e = append(*e, err)
		}
	}
	return err == nil
}

// ErrOrNil returns nil when no errors accumulated, the sole error when there
// is exactly one, and e itself otherwise
func (e Errors) ErrOrNil() error {
	if len(e) == 1 {
		return e[0]
	}
	if len(e) > 0 {
		return e
	}
	return nil
}

func (e Errors) Error() string {
	var buf strings.Builder
	for i, err := range e {
		if i != 0 {
			buf.WriteRune('\n')
		}
		buf.WriteString(err.Error())
	}
	return buf.String()
}
