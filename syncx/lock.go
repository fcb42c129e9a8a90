package syncx

import "sync"

// LockFunc runs fn while holding mux.
func LockFunc(mux sync.Locker, fn func()) {
	mux.Lock()
	defer mux.Unlock()
	fn()
}

func LockFuncT[T any](mux sync.Locker, fn func() T) T {
	mux.Lock()
	defer mux.Unlock()
	return fn()
}

// LockFuncErr is the same as [LockFunc], but passes through an error returned from fn.
func LockFuncErr(mux sync.Locker, fn func() error) error {
	mux.Lock()
	defer mux.Unlock()
	return fn()
}

type RLocker interface {
	RLock()
	RUnlock()
}

func RLockFuncT[T any](mux RLocker, fn func() T) T {
	mux.RLock()
	defer mux.RUnlock()
	return fn()
}

// RLockFuncT2 runs fn under a read lock and returns both of its results.
func RLockFuncT2[A, B any](mux RLocker, fn func() (A, B)) (A, B) {
	mux.RLock()
	defer mux.RUnlock()
	return fn()
}

func LockFuncTErr[T any](mux sync.Locker, fn func() (T, error)) (T, error) {
	mux.Lock()
	defer mux.Unlock()
	return fn()
}
