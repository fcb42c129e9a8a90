package syncx

import "sync"

// Pool provides a generic wrapper of [sync.Pool].
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T) T
}

// NewPool is used to create a typed [Pool].
// The optional reset function is applied to every value passed to [Pool.Put] before it's pooled,
// which is useful for truncating reusable buffers.
func NewPool[T any](factory func() T, reset ...func(T) T) *Pool[T] {
	if factory == nil {
		panic("nil factory function")
	}
	p := new(Pool[T])
	p.pool.New = func() any {
		return factory()
	}
	if len(reset) > 0 && reset[0] != nil {
		p.reset = reset[0]
	}
	return p
}

// Get selects an arbitrary item from the [Pool], removes it from the [Pool], and returns it to the caller.
// If the [Pool] is empty, then Get returns the result of calling the provided factory function.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put adds val to the [Pool], resetting it first if a reset function was given.
func (p *Pool[T]) Put(val T) {
	if p.reset != nil {
		val = p.reset(val)
	}
	p.pool.Put(val)
}
