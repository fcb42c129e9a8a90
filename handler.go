package signalbus

// Handler receives signals of type T from a [Bus].
// Implementations must be comparable, which is true of any pointer type.
type Handler[T any] interface {
	// HandleSignal is called synchronously by [Fire].
	// A returned error stops the remaining fan-out and is returned to the caller of [Fire].
	HandleSignal(signal T) error
}

type funcHandler[T any] struct {
	fn func(T) error
}

func (h *funcHandler[T]) HandleSignal(signal T) error {
	return h.fn(signal)
}

// Func wraps fn in a [Handler].
// Every call returns a distinct [Handler], so the result should be kept if the handler will be unsubscribed.
func Func[T any](fn func(signal T) error) Handler[T] {
	if fn == nil {
		panic("nil handler func")
	}
	return &funcHandler[T]{fn: fn}
}

// Action is the same as [Func] for handlers that can't fail.
func Action[T any](fn func(signal T)) Handler[T] {
	if fn == nil {
		panic("nil handler func")
	}
	return &funcHandler[T]{fn: func(signal T) error {
		fn(signal)
		return nil
	}}
}
