// Package observe exposes a signal type on a [signalbus.Bus] as an observable stream.
package observe

import (
	"context"
	"errors"
	"github.com/saylorsolutions/signalbus"
	"github.com/saylorsolutions/signalbus/assert"
	"github.com/saylorsolutions/signalbus/syncx"
	"sync"
)

var (
	ErrClosed = errors.New("observable signal disposed")
)

// Observer receives each signal relayed by a [Signal].
type Observer[T any] func(signal T)

type registration[T any] struct {
	id  uint64
	obs Observer[T]
}

// Signal relays every signal of type T fired on or above its bus to its observers, in the order they subscribed.
// Observers are called synchronously from [signalbus.Fire], without any lock held, so they may subscribe or cancel re-entrantly.
type Signal[T any] struct {
	bus     *signalbus.Bus
	relay   signalbus.Handler[T]
	buffers *syncx.Pool[*[]Observer[T]]
	done    chan struct{}

	mux       sync.Mutex
	nextID    uint64
	observers []registration[T]
	disposed  bool
}

// Observe creates a [Signal] for type T that's subscribed to bus until [Signal.Dispose] is called.
func Observe[T any](bus *signalbus.Bus) (*Signal[T], error) {
	s := &Signal[T]{
		bus:  bus,
		done: make(chan struct{}),
		buffers: syncx.NewPool(func() *[]Observer[T] {
			buf := make([]Observer[T], 0, 4)
			return &buf
		}, func(buf *[]Observer[T]) *[]Observer[T] {
			clear(*buf)
			*buf = (*buf)[:0]
			return buf
		}),
	}
	s.relay = signalbus.Action(s.fanOut)
	if err := signalbus.Subscribe(bus, s.relay); err != nil {
		return nil, err
	}
	return s, nil
}

// ObserveContext is the same as [Observe], but the [Signal] is disposed when ctx is cancelled.
// A goroutine watches ctx until either it's cancelled or [Signal.Dispose] is called, so the caller must ensure one of them happens.
// A context that's never cancelled, such as [context.Background], leaks the goroutine unless the [Signal] is disposed.
func ObserveContext[T any](ctx context.Context, bus *signalbus.Bus) (*Signal[T], error) {
	s, err := Observe[T](bus)
	if err != nil {
		return nil, err
	}
	go func() {
		select {
		case <-ctx.Done():
			// The bus may already be gone, which doesn't matter here.
			_ = s.Dispose()
		case <-s.done:
		}
	}()
	return s, nil
}

func (s *Signal[T]) fanOut(signal T) {
	// Each fan-out gets its own buffer, so overlapping fires never share one.
	buf := s.buffers.Get()
	defer s.buffers.Put(buf)
	assert.True("fan-out buffer is empty", len(*buf) == 0)

	syncx.LockFunc(&s.mux, func() {
		for _, reg := range s.observers {
			*buf = append(*buf, reg.obs)
		}
	})
	for _, obs := range *buf {
		obs(signal)
	}
}

// Subscribe adds an observer that will receive every relayed signal until the returned [Subscription] is cancelled.
// Returns [ErrClosed] if the [Signal] has been disposed.
func (s *Signal[T]) Subscribe(obs Observer[T]) (*Subscription, error) {
	if obs == nil {
		return nil, errors.New("nil observer")
	}
	return syncx.LockFuncTErr(&s.mux, func() (*Subscription, error) {
		if s.disposed {
			return nil, ErrClosed
		}
		s.nextID++
		id := s.nextID
		s.observers = append(s.observers, registration[T]{id: id, obs: obs})
		return &Subscription{cancel: func() {
			s.remove(id)
		}}, nil
	})
}

func (s *Signal[T]) remove(id uint64) {
	syncx.LockFunc(&s.mux, func() {
		for i, reg := range s.observers {
			if reg.id == id {
				// Build a new slice so an in-progress copy isn't disturbed.
				remaining := make([]registration[T], 0, len(s.observers)-1)
				remaining = append(remaining, s.observers[:i]...)
				s.observers = append(remaining, s.observers[i+1:]...)
				return
			}
		}
	})
}

// Len returns the number of active observers.
func (s *Signal[T]) Len() int {
	return syncx.LockFuncT(&s.mux, func() int {
		return len(s.observers)
	})
}

// Dispose removes all observers and unsubscribes from the bus.
// Only the first call has any effect.
// If the bus was already disposed, its [signalbus.DisposedError] is returned, but the [Signal] is still disposed.
func (s *Signal[T]) Dispose() error {
	first := syncx.LockFuncT(&s.mux, func() bool {
		if s.disposed {
			return false
		}
		s.disposed = true
		s.observers = nil
		return true
	})
	if !first {
		return nil
	}
	close(s.done)
	return signalbus.Unsubscribe(s.bus, s.relay)
}

// Subscription represents a single observer of a [Signal].
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel stops delivery to the observer. It's safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
