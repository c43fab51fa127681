package services

import "errors"

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrEmptyCart    = errors.New("cart is empty")
)

// ErrBadCreds is returned for both unknown emails and wrong passwords.
var ErrBadCreds = &Error{Kind: ErrUnauthorized, Msg: "invalid email or password"}

// Error carries a client-facing message alongside its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func invalid(msg string) error  { return &Error{Kind: ErrValidation, Msg: msg} }
func notFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }
