/*
Package command layers a command convention over a [signalbus.Bus]: a command type must have exactly one subscriber in the subtree where it's fired,
and firing it must result in exactly one delivery.

The policy is checked outside the bus, so it's advisory with respect to concurrent subscriptions made directly with [signalbus.Subscribe].
*/
package command

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/signalbus"
	"reflect"
)

var (
	ErrPolicyViolation    error = &PolicyViolation{} // ErrPolicyViolation matches any [PolicyViolation] with [errors.Is].
	ErrAlreadySubscribed        = errors.New("command can only have one subscription")
	ErrNoSubscriber             = errors.New("command must have a subscription")
	ErrTooManySubscribers       = errors.New("command can't have more than one subscription")
	ErrDeliveryMismatch         = errors.New("command was not received exactly once")
)

// PolicyViolation is returned when a command operation would break the exactly-one-subscriber rule.
type PolicyViolation struct {
	Command string // Command is the name of the command type.
	Count   int    // Count is the subscription or delivery count that broke the rule.
	Reason  error
}

func (e *PolicyViolation) Error() string {
	if e.Reason == nil {
		return "command policy violation"
	}
	return fmt.Sprintf("command policy violation for %s (count %d): %v", e.Command, e.Count, e.Reason)
}

func (e *PolicyViolation) Is(err error) bool {
	_, ok := err.(*PolicyViolation)
	return ok
}

func (e *PolicyViolation) Unwrap() error {
	return e.Reason
}

func violation[C any](count int, reason error) error {
	return &PolicyViolation{
		Command: reflect.TypeFor[C]().String(),
		Count:   count,
		Reason:  reason,
	}
}

// Subscribe registers the handler for command type C on bus.
// A [PolicyViolation] is returned if C already has a subscription on bus or any of its descendants.
func Subscribe[C any](bus *signalbus.Bus, handler signalbus.Handler[C]) error {
	if count := signalbus.CountSubscriptions[C](bus); count > 0 {
		return violation[C](count, ErrAlreadySubscribed)
	}
	return signalbus.Subscribe(bus, handler)
}

// Fire delivers cmd to the single subscriber of C in the subtree rooted at bus.
// A [PolicyViolation] is returned without firing if there isn't exactly one subscriber,
// or after firing if the command wasn't delivered exactly once.
// Errors from the bus or the handler are returned unchanged.
func Fire[C any](bus *signalbus.Bus, cmd C) error {
	count := signalbus.CountSubscriptions[C](bus)
	switch {
	case count > 1:
		return violation[C](count, ErrTooManySubscribers)
	case count < 1:
		if bus.IsDisposed() {
			// Let the bus report why there's nothing to deliver to.
			_, err := signalbus.Fire(bus, cmd)
			return err
		}
		return violation[C](count, ErrNoSubscriber)
	}
	delivered, err := signalbus.Fire(bus, cmd)
	if err != nil {
		return err
	}
	if delivered != 1 {
		return violation[C](delivered, ErrDeliveryMismatch)
	}
	return nil
}
