// Package subscribe owns the broadcast-channel subscription lifecycle:
// connect, duplicate-subscribe detection, drop detection, and fixed-delay
// auto-resubscribe.
package subscribe

// Dispatcher is the "safe callback" seam. The transport invokes callbacks
// from its own read goroutine, outside any host framework's reactive context;
// adapters that bind UI state wrap their dispatch mechanism here so state
// updates are not silently dropped. The default dispatcher invokes inline.
type Dispatcher interface {
	Dispatch(fn func())
}

// DirectDispatcher runs callbacks inline on the transport goroutine.
type DirectDispatcher struct{}

func (DirectDispatcher) Dispatch(fn func()) { fn() }

// SerialDispatcher funnels every callback through a single goroutine,
// preserving delivery order for adapters that need one mutation stream.
type SerialDispatcher struct {
	queue chan func()
}

func NewSerialDispatcher(buffer int) *SerialDispatcher {
	d := &SerialDispatcher{queue: make(chan func(), buffer)}
	go func() {
		for fn := range d.queue {
			fn()
		}
	}()
	return d
}

func (d *SerialDispatcher) Dispatch(fn func()) {
	d.queue <- fn
}

// Close stops the dispatch goroutine. Pending callbacks still run.
func (d *SerialDispatcher) Close() {
	close(d.queue)
}
