package address

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress is returned for every input that is not a valid mailbox.
var ErrInvalidAddress = errors.New("address: invalid email address")

// ParseError describes why a mailbox specification was rejected.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidAddress.Error(), e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidAddress
}

func invalid(input, reason string) error {
	return &ParseError{Input: input, Reason: reason}
}
