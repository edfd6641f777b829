package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures reported by a Store.
type ErrorKind int

const (
	// KindInternal is any failure not covered by another kind.
	KindInternal ErrorKind = iota

	// KindUnavailable covers network failures and timeouts.
	KindUnavailable

	// KindAuth covers missing, expired, or rejected credentials.
	KindAuth

	// KindNotFound means the addressed task does not exist.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	default:
		return "internal"
	}
}

// StoreError is returned by every Store operation that fails.
type StoreError struct {
	Op   string // "list", "create", "update", "delete"
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError builds a StoreError. A nil err yields nil.
func NewStoreError(op string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of the first StoreError in err's chain.
// Errors that are not StoreErrors report KindInternal.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a StoreError of KindNotFound.
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == KindNotFound
}

// IsAuth reports whether err is a StoreError of KindAuth.
func IsAuth(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == KindAuth
}

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports required input that was missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "input cancelled"
	}
	return strings.Join(e.Fields, " and ") + " required"
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
