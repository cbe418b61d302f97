package apperr

import "errors"

// ValidationError marks a failure caused by user-supplied input: an unknown
// model identifier, a malformed suite file, a bad flag value.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// IsValidation reports whether err carries a ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
