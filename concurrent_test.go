package signalbus

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type pingSignal struct {
	From int
}

func TestConcurrent_Stress(t *testing.T) {
	const (
		workers    = 8
		iterations = 200
	)
	var (
		chain    = testChain(t, workers)
		received atomic.Int64
		sent     atomic.Int64
		start    = make(chan struct{})
		group    errgroup.Group
	)
	for _, b := range chain {
		require.NoError(t, Subscribe(b, Action(func(pingSignal) {
			received.Add(1)
		})))
	}

	for i, b := range chain {
		group.Go(func() error {
			<-start
			defer b.Dispose()
			for n := 0; n < iterations; n++ {
				delivered, err := Fire(b, pingSignal{From: i})
				if errors.Is(err, ErrDisposed) {
					// An ancestor's worker finished first and took this node down with it.
					return nil
				}
				if err != nil {
					return err
				}
				sent.Add(int64(delivered))
			}
			return nil
		})
	}
	close(start)
	require.NoError(t, group.Wait())

	for i, b := range chain {
		assert.True(t, b.IsDisposed(), "Bus %d should be disposed", i)
		assert.Equal(t, 0, b.NumChildren())
	}
	assert.Equal(t, sent.Load(), received.Load(), "Every reported delivery should have been received exactly once")
	assert.Greater(t, sent.Load(), int64(0))
}

func TestConcurrent_SubscribeFire(t *testing.T) {
	const goroutines = 16
	var (
		b     = NewBus()
		group errgroup.Group
		calls atomic.Int64
		fired atomic.Int64
	)
	for i := 0; i < goroutines; i++ {
		group.Go(func() error {
			handler := Action(func(pingSignal) {
				calls.Add(1)
			})
			for n := 0; n < 100; n++ {
				if err := Subscribe(b, handler); err != nil {
					return err
				}
				delivered, err := Fire(b, pingSignal{From: i})
				if err != nil {
					return err
				}
				fired.Add(int64(delivered))
				if err := Unsubscribe(b, handler); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
	assert.Equal(t, fired.Load(), calls.Load())
	assert.Equal(t, 0, CountSubscriptions[pingSignal](b))
}

func TestConcurrent_CreateChildDispose(t *testing.T) {
	const goroutines = 16
	var (
		root    = NewBus()
		mux     sync.Mutex
		created []*Bus
		group   errgroup.Group
		start   = make(chan struct{})
	)
	for i := 0; i < goroutines; i++ {
		group.Go(func() error {
			<-start
			for n := 0; n < 50; n++ {
				child, err := root.CreateChild()
				if errors.Is(err, ErrDisposed) {
					return nil
				}
				if err != nil {
					return err
				}
				grandchild, err := child.CreateChild()
				if err == nil {
					mux.Lock()
					created = append(created, grandchild)
					mux.Unlock()
				}
				mux.Lock()
				created = append(created, child)
				mux.Unlock()
			}
			return nil
		})
	}
	group.Go(func() error {
		<-start
		root.Dispose()
		return nil
	})
	close(start)
	require.NoError(t, group.Wait())

	assert.True(t, root.IsDisposed())
	assert.Equal(t, 0, root.NumChildren())
	for _, b := range created {
		assert.True(t, b.IsDisposed(), "Every child created before disposal should be cascaded")
	}
}

func TestConcurrent_FireDuringDispose(t *testing.T) {
	var (
		root     = NewBus()
		mid      = root.mustChild(t)
		leaf     = mid.mustChild(t)
		received atomic.Int64
		sent     atomic.Int64
		group    errgroup.Group
	)
	for _, b := range []*Bus{root, mid, leaf} {
		require.NoError(t, Subscribe(b, Action(func(pingSignal) {
			received.Add(1)
		})))
	}
	for i := 0; i < 4; i++ {
		group.Go(func() error {
			for n := 0; n < 500; n++ {
				delivered, err := Fire(root, pingSignal{})
				if err != nil {
					return err
				}
				sent.Add(int64(delivered))
			}
			return nil
		})
	}
	group.Go(func() error {
		mid.Dispose()
		return nil
	})
	require.NoError(t, group.Wait())
	assert.Equal(t, sent.Load(), received.Load())
	assert.True(t, leaf.IsDisposed())
	assert.Equal(t, 1, CountSubscriptions[pingSignal](root))
}

func TestConcurrent_DisposeWaitsForTeardown(t *testing.T) {
	root := NewBus()
	a, err := root.CreateChild("a")
	require.NoError(t, err)
	g, err := a.CreateChild("g")
	require.NoError(t, err)

	// Holding the root's lock stalls the first Dispose while it detaches a from root, before g is disposed.
	root.mux.Lock()
	first := make(chan struct{})
	go func() {
		defer close(first)
		a.Dispose()
	}()
	require.Eventually(t, a.IsDisposed, time.Second, time.Millisecond)

	second := make(chan struct{})
	go func() {
		defer close(second)
		a.Dispose()
	}()
	assert.Never(t, func() bool {
		select {
		case <-second:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond, "A second Dispose shouldn't return while teardown is in progress")
	assert.False(t, g.IsDisposed())

	root.mux.Unlock()
	<-second
	assert.True(t, g.IsDisposed(), "Descendants must be disposed when any Dispose call returns")
	<-first
	assert.Equal(t, 0, root.NumChildren())
}

func TestConcurrent_DisposeSameNode(t *testing.T) {
	const disposers = 8
	for range 20 {
		chain := testChain(t, 4)
		var group errgroup.Group
		start := make(chan struct{})
		for range disposers {
			group.Go(func() error {
				<-start
				chain[1].Dispose()
				for _, b := range chain[1:] {
					if !b.IsDisposed() {
						return errors.New("dispose returned before the subtree was disposed")
					}
					if n := CountSubscriptions[pingSignal](b); n != 0 {
						return errors.New("disposed bus still reports subscriptions")
					}
				}
				return nil
			})
		}
		close(start)
		require.NoError(t, group.Wait())
		assert.False(t, chain[0].IsDisposed())
		assert.Equal(t, 0, chain[0].NumChildren())
	}
}
