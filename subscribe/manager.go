package subscribe

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

const (
	// ReplayNewOnly asks the channel for new events only, no replay backlog.
	ReplayNewOnly = -1

	// Resubscribe delays. Error-driven drops retry a little sooner than
	// failed subscribe attempts; both are fixed delays, not backoff.
	errorRetryDelay   = 1500 * time.Millisecond
	failureRetryDelay = 2500 * time.Millisecond

	dialTimeout  = 10 * time.Second
	probeTimeout = 500 * time.Millisecond
)

// MessageFunc receives each raw channel frame.
type MessageFunc func(raw []byte)

// ErrorFunc receives async transport errors.
type ErrorFunc func(err error)

// Options configures a Manager.
type Options struct {
	HubURL     string // websocket endpoint
	Channel    string
	ReplayID   int  // zero value falls back to ReplayNewOnly
	SkipProbe  bool // skip the ICMP reachability probe before resubscribing
	Dispatcher Dispatcher

	// retry delays are only overridden by tests
	ErrorRetryDelay   time.Duration
	FailureRetryDelay time.Duration
}

// Manager maintains one channel subscription and resubscribes on failure.
type Manager struct {
	opts      Options
	onMessage MessageFunc

	mu              sync.Mutex
	conn            *websocket.Conn
	isSubscribing   bool
	hasErrorHandler bool
	onError         ErrorFunc
	retryTimer      *time.Timer
	closed          bool
}

func NewManager(opts Options, onMessage MessageFunc) *Manager {
	if opts.ReplayID == 0 {
		opts.ReplayID = ReplayNewOnly
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = DirectDispatcher{}
	}
	if opts.ErrorRetryDelay <= 0 {
		opts.ErrorRetryDelay = errorRetryDelay
	}
	if opts.FailureRetryDelay <= 0 {
		opts.FailureRetryDelay = failureRetryDelay
	}
	return &Manager{opts: opts, onMessage: onMessage}
}

// OnError registers the async error listener. Exactly one registration per
// manager lifetime; later calls are no-ops.
func (m *Manager) OnError(fn ErrorFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasErrorHandler {
		return
	}
	m.hasErrorHandler = true
	m.onError = fn
}

// Subscribe establishes the channel subscription. A call while another
// subscribe is in flight is a no-op. Any prior subscription is torn down
// first (best-effort) so events are never delivered twice.
func (m *Manager) Subscribe(ctx context.Context) {
	m.mu.Lock()
	if m.closed || m.isSubscribing {
		m.mu.Unlock()
		return
	}
	m.isSubscribing = true
	prior := m.conn
	m.conn = nil
	m.mu.Unlock()

	if prior != nil {
		_ = prior.Close()
	}

	go m.connect(ctx)
}

func (m *Manager) connect(ctx context.Context) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, m.opts.HubURL, nil)
	if err != nil {
		tool.DefaultLogger.Warnf("Channel subscribe failed: %v", err)
		m.mu.Lock()
		m.isSubscribing = false
		m.mu.Unlock()
		m.scheduleResubscribe(ctx, m.opts.FailureRetryDelay)
		return
	}

	frame := types.SubscribeFrame{Channel: m.opts.Channel, ReplayID: m.opts.ReplayID}
	data, err := sonic.Marshal(frame)
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		tool.DefaultLogger.Warnf("Channel handshake failed: %v", err)
		_ = conn.Close()
		m.mu.Lock()
		m.isSubscribing = false
		m.mu.Unlock()
		m.scheduleResubscribe(ctx, m.opts.FailureRetryDelay)
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	m.conn = conn
	m.isSubscribing = false
	m.mu.Unlock()

	tool.DefaultLogger.Infof("Subscribed to channel %s", m.opts.Channel)
	go m.readLoop(ctx, conn)
}

func (m *Manager) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			dropped := m.conn == conn && !m.closed
			if dropped {
				m.conn = nil
			}
			closed := m.closed
			onError := m.onError
			m.mu.Unlock()

			if closed || !dropped {
				return
			}
			tool.DefaultLogger.Warnf("Channel connection dropped: %v", err)
			if onError != nil {
				m.opts.Dispatcher.Dispatch(func() { onError(err) })
			}
			m.scheduleResubscribe(ctx, m.opts.ErrorRetryDelay)
			return
		}
		frame := raw
		m.opts.Dispatcher.Dispatch(func() { m.onMessage(frame) })
	}
}

// scheduleResubscribe arms exactly one pending retry timer. If one is already
// pending, nothing happens; delays never stack.
func (m *Manager) scheduleResubscribe(ctx context.Context, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.retryTimer != nil {
		return
	}
	m.retryTimer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		m.retryTimer = nil
		closed := m.closed
		m.mu.Unlock()
		if closed || ctx.Err() != nil {
			return
		}
		if !m.opts.SkipProbe {
			if host := hubHost(m.opts.HubURL); host != "" && !tool.QuickICMPProbe(host, probeTimeout) {
				tool.DefaultLogger.Debugf("Hub host %s not reachable, resubscribing anyway", host)
			}
		}
		m.Subscribe(ctx)
	})
}

// Close tears the subscription down: pending retry timer cancelled, socket
// closed. The manager cannot be reused afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	timer := m.retryTimer
	m.retryTimer = nil
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

// Connected reports whether a live subscription exists.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

func hubHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
