//go:build noassert

package assert

type AssertionError struct {
	Label  string
	Caller string
}

func (e *AssertionError) Error() string {
	return "assertion '" + e.Label + "' failed"
}

func Disable() {
	// No op
}

func Enable() {
	// No op
}

func True(label string, result bool) {
	// No op
}

func TrueFunc(label string, assertion func() bool) {
	// No op
}
