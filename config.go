package signalbus

import (
	"errors"
	"log/slog"
)

type busConf struct {
	label   string
	logger  *slog.Logger
	metrics Metrics
}

// ConfigFunc configures a root [Bus] created with [NewBus].
// Children inherit the logger and metrics of their parent.
type ConfigFunc func(conf *busConf) error

// WithLogger sets the logger used for diagnostics, which defaults to [slog.Default].
func WithLogger(logger *slog.Logger) ConfigFunc {
	return func(conf *busConf) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		conf.logger = logger
		return nil
	}
}

// WithMetrics sets the [Metrics] implementation notified of bus activity.
func WithMetrics(metrics Metrics) ConfigFunc {
	return func(conf *busConf) error {
		if metrics == nil {
			return errors.New("nil metrics")
		}
		conf.metrics = metrics
		return nil
	}
}

// WithLabel sets a human-readable label for the root bus that's included in log output.
func WithLabel(label string) ConfigFunc {
	return func(conf *busConf) error {
		conf.label = label
		return nil
	}
}
