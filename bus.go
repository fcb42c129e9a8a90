package signalbus

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/saylorsolutions/signalbus/slogx"
	"github.com/saylorsolutions/signalbus/structures/orderedset"
	"github.com/saylorsolutions/signalbus/syncx"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

const (
	rootLabel   = "root"
	childSuffix = "/sub"
)

// Bus is a node in a tree of signal buses.
// Signals fired on a Bus are delivered to its own handlers and to the handlers of all live descendants.
//
// A Bus must be created with [NewBus] or [Bus.CreateChild].
type Bus struct {
	id      string
	label   string
	parent  *Bus
	logger  *slog.Logger
	metrics Metrics

	disposed atomic.Bool
	torndown chan struct{} // torndown is closed once Dispose has finished cascading.

	// mux guards children and handlers.
	// Both children and the handler sets are copy-on-write, so a snapshot taken under the lock stays valid after it's released.
	mux      sync.RWMutex
	children []*Bus
	handlers map[reflect.Type]*orderedset.Set[any]
}

// NewBus creates a new root [Bus].
// This will panic if any [ConfigFunc] returns an error.
func NewBus(configs ...ConfigFunc) *Bus {
	conf := busConf{
		label:   rootLabel,
		logger:  slog.Default(),
		metrics: noopMetrics{},
	}
	for _, fn := range configs {
		if err := fn(&conf); err != nil {
			panic(fmt.Sprintf("invalid bus configuration: %v", err))
		}
	}
	return newBus(nil, conf.label, conf.logger, conf.metrics)
}

func newBus(parent *Bus, label string, logger *slog.Logger, metrics Metrics) *Bus {
	id := uuid.NewString()
	attrs := []any{"bus", id, "label", label}
	if parent != nil {
		attrs = append(attrs, "parent", parent.id)
	}
	b := &Bus{
		id:       id,
		label:    label,
		parent:   parent,
		logger:   slog.New(slogx.NewDedupeHandler(logger.Handler())).With(attrs...),
		metrics:  metrics,
		torndown: make(chan struct{}),
		handlers: map[reflect.Type]*orderedset.Set[any]{},
	}
	metrics.BusCreated()
	return b
}

func (b *Bus) ID() string {
	return b.id
}

func (b *Bus) Label() string {
	return b.label
}

// Parent returns the [Bus] that created this one with [Bus.CreateChild], or nil for a root.
func (b *Bus) Parent() *Bus {
	return b.parent
}

// IsDisposed reports whether [Bus.Dispose] has been called on this bus or an ancestor.
func (b *Bus) IsDisposed() bool {
	return b.disposed.Load()
}

// NumChildren returns the number of live, attached children.
func (b *Bus) NumChildren() int {
	return syncx.RLockFuncT(&b.mux, func() int {
		return len(b.children)
	})
}

func (b *Bus) disposedErr(op string) error {
	return &DisposedError{BusID: b.id, Op: op}
}

// CreateChild creates a new [Bus] owned by this one.
// Signals fired on this bus will also be delivered to the child, and disposing this bus disposes the child.
// The optional label is only used for diagnostics.
func (b *Bus) CreateChild(label ...string) (*Bus, error) {
	childLabel := b.label + childSuffix
	if len(label) > 0 && len(label[0]) > 0 {
		childLabel = label[0]
	}
	return syncx.LockFuncTErr(&b.mux, func() (*Bus, error) {
		if b.disposed.Load() {
			return nil, b.disposedErr("create child")
		}
		child := newBus(b, childLabel, b.logger, b.metrics)
		n := len(b.children)
		b.children = append(b.children[:n:n], child)
		return child, nil
	})
}

// Dispose disposes this bus and, synchronously, every descendant.
// The bus is detached from its parent and all of its subscriptions are dropped.
// Only the first call has any effect, and it's safe to call from multiple goroutines or from within a handler.
// Every call returns only after the whole subtree has been disposed.
func (b *Bus) Dispose() {
	if !b.disposed.CompareAndSwap(false, true) {
		<-b.torndown
		return
	}
	defer close(b.torndown)
	children := syncx.LockFuncT(&b.mux, func() []*Bus {
		children := b.children
		b.children = nil
		clear(b.handlers)
		return children
	})
	if b.parent != nil {
		b.parent.detach(b)
	}
	for _, child := range children {
		child.Dispose()
	}
	b.metrics.BusDisposed()
	b.logger.Debug("Bus disposed", "children", len(children))
}

func (b *Bus) detach(child *Bus) {
	syncx.LockFunc(&b.mux, func() {
		idx := slices.Index(b.children, child)
		if idx < 0 {
			return
		}
		b.children = slices.Concat(b.children[:idx], b.children[idx+1:])
	})
}

func isComparable(handler any) bool {
	return handler != nil && reflect.ValueOf(handler).Comparable()
}

// isNil reports whether handler is nil, or a nil value of a nillable kind wrapped in an interface.
func isNil(handler any) bool {
	if handler == nil {
		return true
	}
	switch v := reflect.ValueOf(handler); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func (b *Bus) subscribe(typ reflect.Type, handler any) error {
	if isNil(handler) {
		return ErrNilHandler
	}
	if !isComparable(handler) {
		return fmt.Errorf("%w: %T", ErrIncomparableHandler, handler)
	}
	added, err := syncx.LockFuncTErr(&b.mux, func() (bool, error) {
		if b.disposed.Load() {
			return false, b.disposedErr("subscribe")
		}
		set, ok := b.handlers[typ]
		if !ok {
			set = orderedset.New[any]()
			b.handlers[typ] = set
		}
		return set.Add(handler), nil
	})
	if err != nil {
		return err
	}
	if !added {
		b.logger.Warn("Handler subscribed twice", "signal", typ.String())
		return nil
	}
	b.metrics.Subscribed()
	return nil
}

func (b *Bus) unsubscribe(typ reflect.Type, handler any) error {
	removed, err := syncx.LockFuncTErr(&b.mux, func() (bool, error) {
		if b.disposed.Load() {
			return false, b.disposedErr("unsubscribe")
		}
		// A handler that can't be a map key was never subscribed.
		if !isComparable(handler) {
			return false, nil
		}
		set, ok := b.handlers[typ]
		if !ok {
			return false, nil
		}
		removed := set.Remove(handler)
		if set.Len() == 0 {
			delete(b.handlers, typ)
		}
		return removed, nil
	})
	if removed {
		b.metrics.Unsubscribed()
	}
	return err
}

func (b *Bus) count(typ reflect.Type) int {
	if b.disposed.Load() {
		return 0
	}
	count, children := syncx.RLockFuncT2(&b.mux, func() (int, []*Bus) {
		if b.disposed.Load() {
			return 0, nil
		}
		return b.handlers[typ].Len(), b.children
	})
	for _, child := range children {
		count += child.count(typ)
	}
	return count
}

// snapshot returns the handlers for typ and the children of this bus, or false if it's disposed.
// Liveness is checked under the same lock that Dispose takes to clear state, so a bus being disposed is either fully visible or skipped.
func (b *Bus) snapshot(typ reflect.Type) ([]any, []*Bus, bool) {
	b.mux.RLock()
	defer b.mux.RUnlock()
	if b.disposed.Load() {
		return nil, nil, false
	}
	return b.handlers[typ].Values(), b.children, true
}

func (b *Bus) fire(typ reflect.Type, deliver func(handler any) error) (int, error) {
	handlers, children, live := b.snapshot(typ)
	if !live {
		return 0, b.disposedErr("fire")
	}
	delivered, err := dispatch(typ, handlers, children, deliver)
	b.metrics.Fired(delivered)
	return delivered, err
}

func dispatch(typ reflect.Type, handlers []any, children []*Bus, deliver func(handler any) error) (int, error) {
	var delivered int
	for _, handler := range handlers {
		if err := deliver(handler); err != nil {
			return delivered, err
		}
		delivered++
	}
	for _, child := range children {
		childHandlers, grandchildren, live := child.snapshot(typ)
		if !live {
			continue
		}
		n, err := dispatch(typ, childHandlers, grandchildren, deliver)
		delivered += n
		if err != nil {
			return delivered, err
		}
	}
	return delivered, nil
}

// Subscribe registers handler for signals of exactly type T on b.
// Subscribing the same handler twice logs a warning, and the handler is still only invoked once per [Fire].
func Subscribe[T any](b *Bus, handler Handler[T]) error {
	if handler == nil {
		return ErrNilHandler
	}
	return b.subscribe(reflect.TypeFor[T](), handler)
}

// Unsubscribe removes handler for signals of type T from b.
// Removing a handler that isn't subscribed does nothing.
func Unsubscribe[T any](b *Bus, handler Handler[T]) error {
	return b.unsubscribe(reflect.TypeFor[T](), handler)
}

// CountSubscriptions returns the number of handlers for type T on b and all of its live descendants.
// A disposed [Bus] always returns 0.
func CountSubscriptions[T any](b *Bus) int {
	return b.count(reflect.TypeFor[T]())
}

// Fire delivers signal to the handlers for type T on b, and then to those on each live descendant.
// The number of completed deliveries is returned.
//
// If a handler returns an error, the remaining deliveries are skipped and the error is returned as-is,
// along with the number of deliveries completed before it.
func Fire[T any](b *Bus, signal T) (int, error) {
	return b.fire(reflect.TypeFor[T](), func(handler any) error {
		return handler.(Handler[T]).HandleSignal(signal)
	})
}

// FireZero fires the zero value of T, for signals that carry no data.
func FireZero[T any](b *Bus) (int, error) {
	var signal T
	return Fire(b, signal)
}
