package recipe

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that no recipe matched, including an empty store.
	ErrNotFound = errors.New("recipe not found")
	// ErrInvalidDirection reports a direction other than random, next or prev.
	ErrInvalidDirection = errors.New("invalid navigation direction")
)

// StoreError wraps a persistence failure such as a constraint violation or a lost connection.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("recipe store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// FixtureError reports that the seed fixture could not be read, parsed or validated.
type FixtureError struct {
	Path string
	Err  error
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("recipe fixture %s: %v", e.Path, e.Err)
}

func (e *FixtureError) Unwrap() error {
	return e.Err
}
