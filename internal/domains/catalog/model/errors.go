package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")
)

// StoreError wraps every store failure that is neither ErrNotFound nor
// ErrDuplicate. Callers propagate it unchanged; the HTTP boundary maps it to 500.
type StoreError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError returns nil when err is nil.
func NewStoreError(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}

// NotFound returns ErrNotFound annotated with the kind and id.
func NotFound(kind Kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Duplicate returns ErrDuplicate annotated with the kind and conflicting key.
func Duplicate(kind Kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrDuplicate)
}
