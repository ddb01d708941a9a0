package trash

import "errors"

// Common errors returned by the Manager
var (
	// ErrNotFound is returned when an id is not in the trash ledger
	ErrNotFound = errors.New("not found in trash")

	// ErrUnknownKind is returned for a kind that has no registered strategy
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrAlreadyTrashed is returned when the ledger already holds the id
	ErrAlreadyTrashed = errors.New("already in trash")

	// ErrStorageWrite is returned when a collection could not be saved even after a retry
	ErrStorageWrite = errors.New("storage write failed")

	// ErrInvalidTransition is returned when a lifecycle transition is not allowed
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrRecordNotFound is returned when a record is missing from its origin collection
	ErrRecordNotFound = errors.New("record not found in collection")
)

// Error wraps an error with the operation and ledger id it happened on
type Error struct {
	// Op is the operation that failed (e.g., "put", "restore", "purge")
	Op string

	// ID is the ledger id involved, if any
	ID string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.ID == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.ID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, id string, err error) error {
	return &Error{
		Op:  op,
		ID:  id,
		Err: err,
	}
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnknownKind returns true if the error is ErrUnknownKind
func IsUnknownKind(err error) bool {
	return errors.Is(err, ErrUnknownKind)
}

// IsAlreadyTrashed returns true if the error is ErrAlreadyTrashed
func IsAlreadyTrashed(err error) bool {
	return errors.Is(err, ErrAlreadyTrashed)
}

// IsStorageWrite returns true if the error is ErrStorageWrite
func IsStorageWrite(err error) bool {
	return errors.Is(err, ErrStorageWrite)
}
