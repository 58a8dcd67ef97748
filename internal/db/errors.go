package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error conditions exposed to callers. Branch on them with errors.Is.
var (
	// ErrNotFound: unknown session, category, timer, entry or family.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness rule or a delete guard would be violated.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition is a NotFound condition: the object exists but not in
	// a state that accepts the requested transition.
	ErrInvalidTransition = fmt.Errorf("%w: invalid state transition", ErrNotFound)

	// ErrInvalid: caller input failed validation (non-positive minutes, bad date).
	ErrInvalid = errors.New("invalid input")
)

// translate maps storage errors onto the closed error set.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
