package stress

import (
	"context"
	"github.com/saylorsolutions/signalbus"
	"github.com/saylorsolutions/signalbus/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	tests := map[string]Config{
		"Single node":  {Workers: 1, Iterations: 100},
		"Short chain":  {Workers: 4, Iterations: 250},
		"Long chain":   {Workers: 16, Iterations: 100},
		"No iteration": {Workers: 3, Iterations: 0},
	}
	for name, conf := range tests {
		t.Run(name, func(t *testing.T) {
			conf.Logger = quietLogger()
			report, err := Run(context.Background(), conf)
			require.NoError(t, err)
			assert.True(t, report.Balanced(), "sent %d, received %d", report.Sent, report.Received)
			assert.True(t, report.AllDisposed)
			assert.Equal(t, conf.Workers, report.Nodes)
			assert.LessOrEqual(t, report.Fires, int64(conf.Workers*conf.Iterations))
		})
	}
}

func TestRun_SingleNodeExact(t *testing.T) {
	report, err := Run(context.Background(), Config{Workers: 1, Iterations: 10, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, int64(10), report.Fires)
	assert.Equal(t, int64(10), report.Sent)
	assert.Equal(t, 0, report.CutShort)
}

func TestRun_Metrics(t *testing.T) {
	c := metrics.NewCollector("", "stress")
	report, err := Run(context.Background(), Config{
		Workers:    6,
		Iterations: 50,
		Logger:     quietLogger(),
		Options:    []signalbus.ConfigFunc{signalbus.WithMetrics(c)},
	})
	require.NoError(t, err)

	snap, err := c.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 6.0, snap["signalbus_stress_buses_created_total"])
	assert.Equal(t, 6.0, snap["signalbus_stress_buses_disposed_total"])
	assert.Equal(t, 0.0, snap["signalbus_stress_buses_live"])
	assert.Equal(t, float64(report.Fires), snap["signalbus_stress_signals_fired_total"])
	assert.Equal(t, float64(report.Sent), snap["signalbus_stress_signals_delivered_total"])
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := Run(ctx, Config{Workers: 4, Iterations: 1000, Logger: quietLogger()})
	require.NoError(t, err)
	assert.True(t, report.AllDisposed)
	assert.True(t, report.Balanced())
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{Workers: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Run(context.Background(), Config{Workers: 1, Iterations: -1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
