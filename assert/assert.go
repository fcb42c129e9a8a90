//go:build !noassert

package assert

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

var disabled atomic.Bool

// AssertionError is the panic value of a failed assertion.
type AssertionError struct {
	Label  string
	Caller string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion '%s' failed at %s", e.Label, e.Caller)
}

// Disable will disable assertion evaluation globally.
// This is concurrency safe, but can have side effects in other goroutines that use assertions.
func Disable() {
	disabled.Store(true)
}

// Enable can be used to re-enable assertion evaluation if Disable was called previously.
func Enable() {
	disabled.Store(false)
}

func fail(label string) {
	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("'%s#%d'", file, line)
	}
	panic(&AssertionError{Label: label, Caller: caller})
}

// True will panic with an [*AssertionError] if result is not true.
func True(label string, result bool) {
	if disabled.Load() {
		return
	}
	if !result {
		fail(label)
	}
}

// TrueFunc will panic with an [*AssertionError] if assertion returns false.
// The assertion is not evaluated while assertions are disabled, so it must not have side effects.
func TrueFunc(label string, assertion func() bool) {
	if disabled.Load() {
		return
	}
	if !assertion() {
		fail(label)
	}
}
