// Package metrics provides a Prometheus implementation of [signalbus.Metrics].
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/saylorsolutions/signalbus"
	"go.uber.org/multierr"
	"sort"
)

const DefaultNamespace = "signalbus"

var _ signalbus.Metrics = (*Collector)(nil)

// Collector tracks bus activity with Prometheus metrics.
// A single Collector is normally shared by every bus in a tree, since children inherit it from their root.
type Collector struct {
	created      prometheus.Counter
	disposed     prometheus.Counter
	live         prometheus.Gauge
	subscribed   prometheus.Counter
	unsubscribed prometheus.Counter
	fired        prometheus.Counter
	delivered    prometheus.Counter
	fanOut       prometheus.Histogram

	named map[string]prometheus.Metric
}

// NewCollector creates a [Collector] with the given namespace and subsystem.
// An empty namespace defaults to [DefaultNamespace].
func NewCollector(namespace, subsystem string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{named: map[string]prometheus.Metric{}}
	counter := func(name, help string) prometheus.Counter {
		m := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
		c.named[prometheus.BuildFQName(namespace, subsystem, name)] = m
		return m
	}
	c.created = counter("buses_created_total", "Total buses created, including children")
	c.disposed = counter("buses_disposed_total", "Total buses disposed, including cascaded disposals")
	c.subscribed = counter("subscriptions_added_total", "Total handlers subscribed, excluding duplicates")
	c.unsubscribed = counter("subscriptions_removed_total", "Total handlers explicitly unsubscribed")
	c.fired = counter("signals_fired_total", "Total signals fired on a live bus")
	c.delivered = counter("signals_delivered_total", "Total handler invocations that completed without error")

	c.live = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "buses_live",
		Help:      "Count of buses that have not been disposed",
	})
	c.named[prometheus.BuildFQName(namespace, subsystem, "buses_live")] = c.live

	c.fanOut = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "fire_fan_out",
		Help:      "Number of deliveries per fired signal",
		Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
	})
	c.named[prometheus.BuildFQName(namespace, subsystem, "fire_fan_out")] = c.fanOut
	return c
}

// Names returns the fully qualified names of every metric, sorted.
func (c *Collector) Names() []string {
	names := make([]string, 0, len(c.named))
	for name := range c.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register registers all metrics with r, or [prometheus.DefaultRegisterer] if r is nil.
// Every metric is attempted, and all registration errors are returned together.
func (c *Collector) Register(r prometheus.Registerer) error {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	var mErr error
	for _, name := range c.Names() {
		if err := r.Register(c.named[name].(prometheus.Collector)); err != nil {
			mErr = multierr.Append(mErr, err)
		}
	}
	return mErr
}

func (c *Collector) BusCreated() {
	c.created.Inc()
	c.live.Inc()
}

func (c *Collector) BusDisposed() {
	c.disposed.Inc()
	c.live.Dec()
}

func (c *Collector) Subscribed() {
	c.subscribed.Inc()
}

func (c *Collector) Unsubscribed() {
	c.unsubscribed.Inc()
}

func (c *Collector) Fired(delivered int) {
	c.fired.Inc()
	c.delivered.Add(float64(delivered))
	c.fanOut.Observe(float64(delivered))
}

// Snapshot reads the current value of each metric, keyed by fully qualified name.
// Histograms are reported by their sample count.
func (c *Collector) Snapshot() (map[string]float64, error) {
	snap := make(map[string]float64, len(c.named))
	var mErr error
	for name, metric := range c.named {
		var m dto.Metric
		if err := metric.Write(&m); err != nil {
			mErr = multierr.Append(mErr, err)
			continue
		}
		switch {
		case m.Counter != nil:
			snap[name] = m.Counter.GetValue()
		case m.Gauge != nil:
			snap[name] = m.Gauge.GetValue()
		case m.Histogram != nil:
			snap[name] = float64(m.Histogram.GetSampleCount())
		}
	}
	return snap, mErr
}
