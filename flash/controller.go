package flash

import (
	"context"
	"sync"
	"time"

	"github.com/helpdeskhq/chatflash-go/share"
	"github.com/helpdeskhq/chatflash-go/tool"
)

// Options tunes the controller's timers. Zero values fall back to the
// production defaults; tests shrink them.
type Options struct {
	TargetLabel        string
	TickInterval       time.Duration // highlight toggle period
	MaxFlashDuration   time.Duration // hard cutoff if the stop signal is missed
	ResolveAttempts    int
	ResolveDelay       time.Duration
	VisibilityAttempts int
	VisibilityDelay    time.Duration
	WatchdogInterval   time.Duration // periodic stop-condition re-poll
}

func (o *Options) applyDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = 500 * time.Millisecond
	}
	if o.MaxFlashDuration <= 0 {
		o.MaxFlashDuration = 10 * time.Minute
	}
	if o.ResolveAttempts <= 0 {
		o.ResolveAttempts = 8
	}
	if o.ResolveDelay <= 0 {
		o.ResolveDelay = 250 * time.Millisecond
	}
	if o.VisibilityAttempts <= 0 {
		o.VisibilityAttempts = 3
	}
	if o.VisibilityDelay <= 0 {
		o.VisibilityDelay = 300 * time.Millisecond
	}
	if o.WatchdogInterval <= 0 {
		o.WatchdogInterval = 5 * time.Second
	}
}

// Controller owns the blink loop on the host panel. At most one blink is
// active per instance; while flashing, new triggers only retarget it.
type Controller struct {
	bar      PanelBar
	store    *share.VisibilityStore
	resolver *targetResolver
	opts     Options

	mu         sync.Mutex
	isFlashing bool
	target15   string
	startedAt  time.Time
	stopTick   chan struct{}
}

func NewController(bar PanelBar, store *share.VisibilityStore, opts Options) *Controller {
	opts.applyDefaults()
	return &Controller{
		bar:      bar,
		store:    store,
		resolver: newTargetResolver(bar, opts.TargetLabel),
		opts:     opts,
	}
}

// IsFlashing reports whether a blink loop is active.
func (c *Controller) IsFlashing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isFlashing
}

// Target returns the session the current flash points at.
func (c *Controller) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target15
}

// PanelVisible reports whether the target panel is currently visible,
// retrying transient registry failures. When every attempt fails it reports
// false: a possible false-positive flash is preferred over a silently missed
// notification, the opposite bias of the membership and mute gates.
func (c *Controller) PanelVisible(ctx context.Context) bool {
	visible, err := tool.RetryValue(ctx, c.opts.VisibilityAttempts, c.opts.VisibilityDelay, func() (bool, error) {
		id, err := c.resolver.resolveOnce()
		if err != nil {
			return false, err
		}
		info, err := c.bar.GetPanelInfo(id)
		if err != nil {
			return false, err
		}
		return info.Visible, nil
	})
	if err != nil {
		tool.DefaultLogger.Warnf("Panel visibility check failed, treating as hidden: %v", err)
		return false
	}
	return visible
}

// Start begins flashing for session15. If a flash is already active only the
// target is updated; the blink interval is never stacked.
func (c *Controller) Start(ctx context.Context, session15 string) {
	c.mu.Lock()
	if c.isFlashing {
		c.target15 = session15
		c.mu.Unlock()
		tool.DefaultLogger.Debugf("Flash already active, retargeting to %s", session15)
		return
	}
	c.isFlashing = true
	c.target15 = session15
	c.startedAt = time.Now()
	stop := make(chan struct{})
	c.stopTick = stop
	c.mu.Unlock()

	go c.run(ctx, stop)
}

func (c *Controller) run(ctx context.Context, stop chan struct{}) {
	targetID, err := c.resolver.resolve(ctx, c.opts.ResolveAttempts, c.opts.ResolveDelay)
	if err != nil {
		tool.DefaultLogger.Warnf("Flash target resolution failed, not flashing: %v", err)
		c.mu.Lock()
		if c.stopTick == stop {
			c.isFlashing = false
			c.stopTick = nil
		}
		c.mu.Unlock()
		return
	}

	ticker := time.NewTicker(c.opts.TickInterval)
	defer ticker.Stop()

	highlighted := false
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			c.Stop()
			return
		case <-ticker.C:
			if c.shouldStop(targetID) {
				c.Stop()
				return
			}
			highlighted = !highlighted
			if err := c.bar.SetPanelHighlighted(targetID, highlighted); err != nil {
				tool.DefaultLogger.Debugf("Highlight toggle failed: %v", err)
			}
		}
	}
}

// shouldStop evaluates the stop condition and the hard cutoff. The stop
// condition needs the user to actually be reading the target conversation:
// panel visible, chat view open, active session equal to the flash target.
func (c *Controller) shouldStop(targetID string) bool {
	c.mu.Lock()
	startedAt := c.startedAt
	target15 := c.target15
	c.mu.Unlock()

	if time.Since(startedAt) >= c.opts.MaxFlashDuration {
		tool.DefaultLogger.Infof("Flash exceeded max duration, stopping")
		return true
	}

	info, err := c.bar.GetPanelInfo(targetID)
	if err != nil || !info.Visible {
		return false
	}
	state := c.store.Reload()
	return state.IsChatView && state.ActiveSession15 != "" && state.ActiveSession15 == target15
}

// Stop cancels the blink loop and clears the highlight best-effort. Safe to
// call when not flashing.
func (c *Controller) Stop() {
	c.mu.Lock()
	stop := c.stopTick
	c.stopTick = nil
	c.isFlashing = false
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}

	// Clearing the highlight is best-effort; a resolution failure here is
	// swallowed, the worst case is a stale highlight until the next flash.
	if id, err := c.resolver.resolveOnce(); err == nil {
		if err := c.bar.SetPanelHighlighted(id, false); err != nil {
			tool.DefaultLogger.Debugf("Highlight clear failed: %v", err)
		}
	}
}

// RunWatchdog periodically re-evaluates the stop condition while a flash is
// active, recovering when the per-tick check misses a visibility transition
// (the transport offers no ordering guarantees, so a stop signal can be
// observed late or not at all). Blocks until ctx is done.
func (c *Controller) RunWatchdog(ctx context.Context) {
	ticker := time.NewTicker(c.opts.WatchdogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.IsFlashing() {
				continue
			}
			id, err := c.resolver.resolveOnce()
			if err != nil {
				continue
			}
			if c.shouldStop(id) {
				c.Stop()
			}
		}
	}
}
