package signalbus

import (
	"errors"
	"fmt"
)

var (
	ErrDisposed            error = &DisposedError{} // ErrDisposed matches any [DisposedError] with [errors.Is].
	ErrNilHandler                = errors.New("nil handler")
	ErrIncomparableHandler       = errors.New("handler is not comparable")
)

// DisposedError is returned when an operation is attempted on a [Bus] that has been disposed.
type DisposedError struct {
	BusID string
	Op    string
}

func (e *DisposedError) Error() string {
	if len(e.BusID) == 0 {
		return "bus disposed"
	}
	return fmt.Sprintf("bus '%s' disposed: cannot %s", e.BusID, e.Op)
}

func (e *DisposedError) Is(err error) bool {
	_, ok := err.(*DisposedError)
	return ok
}
