package csrf

import "errors"

// ErrForged is matched by every verification failure.
var ErrForged = errors.New("csrf.forged")

var (
	ErrMissingSecret  = errors.New("csrf.missing_secret")
	ErrSecretTooShort = errors.New("csrf.secret_too_short")
)

const (
	ErrNoSeed       = forgedError("csrf.no_seed")
	ErrMissingToken = forgedError("csrf.missing_token")
	ErrInvalidToken = forgedError("csrf.invalid_token")
)

type forgedError string

func (e forgedError) Error() string { return string(e) }

func (e forgedError) Is(target error) bool { return target == ErrForged }
