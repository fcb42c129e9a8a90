package signalbus

// Metrics receives notifications about bus activity.
// Implementations must be concurrency safe. See the metrics package for a Prometheus implementation.
type Metrics interface {
	BusCreated()
	BusDisposed()
	Subscribed()
	Unsubscribed()
	// Fired is called once per call to [Fire] that was accepted, with the total number of completed deliveries.
	Fired(delivered int)
}

var _ Metrics = noopMetrics{}

type noopMetrics struct{}

func (noopMetrics) BusCreated()   {}
func (noopMetrics) BusDisposed()  {}
func (noopMetrics) Subscribed()   {}
func (noopMetrics) Unsubscribed() {}
func (noopMetrics) Fired(int)     {}
