/*
Package signalbus provides a hierarchical, type-keyed signal bus.

# Bus Tree

A [Bus] is a node in a tree. A root is created with [NewBus], and children are created with [Bus.CreateChild].
Each bus owns its children: disposing a bus with [Bus.Dispose] synchronously disposes its whole subtree,
detaches it from its parent, and drops all of its subscriptions.

Firing a signal with [Fire] delivers it to the handlers registered on that bus and then, recursively,
to the handlers of every live descendant. Signals never travel up to a parent or across to a sibling.
This makes it easy to scope signals: a screen, a session, or a request can own a child bus that is thrown away
with everything subscribed to it.

# Signals and Handlers

A signal is any Go value, and it's matched by the exact type given as the type argument of [Subscribe] and [Fire].
There is no polymorphic matching: a handler for an interface type only receives signals fired with that interface as the type argument.

A [Handler] is identified by its interface value, so it must be comparable.
Plain functions are not comparable in Go, so wrap them with [Func] or [Action] and keep the returned [Handler] to unsubscribe later.
Subscribing the same [Handler] twice is harmless: a warning is logged, and the handler is still invoked once per fire.

Handlers run synchronously on the goroutine that called [Fire], in subscription order for a given bus.
If the signal is a pointer, all handlers in the fan-out share it and can observe each other's changes.
An error returned from a handler stops the fan-out and is returned from [Fire] unchanged.

# Concurrency

Every operation is safe to call from multiple goroutines.
Handlers are invoked without any bus lock held, so a handler may subscribe, unsubscribe, fire, create children, or dispose buses, including its own.

# Adapters

The command package layers an exactly-one-subscriber policy over the bus,
and the observe package exposes a signal type as an observable stream.
*/
package signalbus
