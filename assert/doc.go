/*
Package assert provides runtime assertions for invariants that indicate a programming error if violated.

A failed assertion panics with an [*AssertionError] describing the label and call site.
To turn off assertions build with the 'noassert' flag, which compiles them to no-ops.
For temporary changes, the Disable and Enable functions are also provided, but these should likely not be used in production code.
*/
package assert
