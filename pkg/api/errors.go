package api

import (
	"errors"
	"fmt"
)

// RemoteError is any failure reported by (or while reaching) the backend.
// Message carries the server-supplied "error" field when the backend sent
// one; it is empty for transport failures and bodyless error statuses.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// UserMessage returns the server-supplied message verbatim, or the given
// generic fallback when the server did not provide one.
func UserMessage(err error, generic string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return generic
}
