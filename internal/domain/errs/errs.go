// Package errs defines the error taxonomy shared by the domain rules, the
// stores and the JSON transport.
//
// Callers compare with errors.Is; stores and the engine wrap these with
// fmt.Errorf("...: %w", ...) to add context without losing the kind.
package errs

import "errors"

var (
	// ErrAlreadyInClan is returned when a user who already belongs to a clan
	// tries to join or found another one.
	ErrAlreadyInClan = errors.New("user already belongs to a clan")

	// ErrNotInClan is returned when a user leaves a clan they are not in.
	ErrNotInClan = errors.New("user is not a member of this clan")

	// ErrNameTaken is returned when a clan name is already used.
	ErrNameTaken = errors.New("a clan with this name already exists")

	// ErrDuplicateUser is returned when a pseudo or email is already registered.
	ErrDuplicateUser = errors.New("a user with this pseudo or email already exists")

	// ErrNotFound is returned when a user, clan or event does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for missing fields or out-of-range values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited is returned when a user scans faster than allowed.
	ErrRateLimited = errors.New("too many scans, try again later")

	// ErrConflict is returned when an optimistic write lost a race.
	// The engine retries it; it only escapes when retries are exhausted.
	ErrConflict = errors.New("concurrent update conflict")
)

// Invalid wraps ErrInvalidInput with a human-readable reason.
func Invalid(reason string) error {
	return &invalidError{reason: reason}
}

type invalidError struct {
	reason string
}

func (e *invalidError) Error() string { return e.reason }

func (e *invalidError) Unwrap() error { return ErrInvalidInput }
