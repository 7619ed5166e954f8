package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Drivers map their own
// errors onto these (see the postgres and sqlite MapError functions).
var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity covers both pre-insert validation and constraint
	// rejections by the database.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrReferenceViolation accompanies ErrInvalidEntity for dangling
	// foreign keys.
	ErrReferenceViolation = errors.New("referenced entity does not exist")
)

// Per-entity not-found errors. Each wraps ErrNotFound.
var (
	ErrCardNotFound     = fmt.Errorf("%w: card", ErrNotFound)
	ErrSRSStateNotFound = fmt.Errorf("%w: srs state", ErrNotFound)
	ErrNoteNotFound     = fmt.Errorf("%w: note", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("%w: document", ErrNotFound)
	ErrSettingNotFound  = fmt.Errorf("%w: setting", ErrNotFound)
)

// IsNotFoundError reports whether err is any of the not-found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is a uniqueness failure.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError records which write failed on which table. Err is usually an
// already-mapped driver error, so errors.Is still sees the sentinels.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store: %s %s failed", e.Operation, e.Entity)
	}
	return fmt.Sprintf("store: %s %s failed: %v", e.Operation, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err with the entity and operation that produced it.
func NewStoreError(entity, operation string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
