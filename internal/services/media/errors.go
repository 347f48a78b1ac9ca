package media

import "fmt"

// ValidationError rejects an upload before any bytes move. The reason
// is safe to show to the user verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransferError wraps a failed network call to the object store. The
// caller reports it generically and the user may resubmit; there is no
// retry or partial-upload recovery here.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed during %s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
