package services

import "errors"

var (
	ErrInvalidStat        = errors.New("invalid stat")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var errUserMissing = errors.New("user missing")

// GeneratorError wraps a failed call to the quest generator. The generator
// never returned usable text, as opposed to returning text that failed
// parsing.
type GeneratorError struct {
	Err error
}

func (e *GeneratorError) Error() string {
	return "quest generation failed: " + e.Err.Error()
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}
