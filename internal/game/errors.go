package game

import "errors"

// ErrValidation is the root of every rejected-input error. Rejected commands
// leave the profile untouched.
var ErrValidation = errors.New("validation failed")

// Validation errors shared by all games.
var (
	ErrInvalidBet        = wrap("bet must be at least 1")
	ErrBetTooHigh        = wrap("bet exceeds maximum allowed")
	ErrInsufficientFunds = wrap("insufficient funds")
	ErrInvalidGuess      = wrap("guess must be heads or tails")
	ErrInvalidChoice     = wrap("choice must be a colour or a number from 0 to 36")
	ErrInvalidAction     = wrap("action not allowed in this state")
	ErrUnknownGame       = wrap("unknown game")
)

// validationError is a sentinel that also matches ErrValidation.
type validationError struct {
	msg string
}

func wrap(msg string) error {
	return &validationError{msg: msg}
}

func (e *validationError) Error() string {
	return e.msg
}

func (e *validationError) Unwrap() error {
	return ErrValidation
}
