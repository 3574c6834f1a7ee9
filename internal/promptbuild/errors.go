package promptbuild

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredField is matched by every MissingFieldError.
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnknownTemplate      = errors.New("unknown template")
)

// MissingFieldError reports a required request field that was blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// MissingField returns the field name when err is a MissingFieldError.
func MissingField(err error) (string, bool) {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf.Field, true
	}
	return "", false
}
