package campaign

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the caller supplied an empty or missing
	// identifier or payload. It is never worth retrying.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRemoteUnavailable means the durable store could not be read. Reads
	// never fall back to local data.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrRemoteWriteFailed matches every *RemoteWriteError.
	ErrRemoteWriteFailed = errors.New("remote write failed")

	// ErrNotFoundOrForbidden means an owner-scoped write matched no record:
	// it does not exist or belongs to someone else.
	ErrNotFoundOrForbidden = errors.New("campaign not found or not owned by caller")
)

// RemoteWriteError reports a failed durable write. The owner's local draft
// is left in place when it is returned.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRemoteWriteFailed, e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

func (e *RemoteWriteError) Is(target error) bool {
	return target == ErrRemoteWriteFailed
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
