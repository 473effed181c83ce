// Package router reconciles classified broadcast events into the chat
// widget's collection state: the session list, the open conversation, and the
// per-session flash flags.
package router

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/helpdeskhq/chatflash-go/share"
	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

// ChatService is the server-side contract the router reloads authoritative
// state from. Implemented by api.Client; tests use a fake.
type ChatService interface {
	GetChatSessions(ctx context.Context) ([]types.ChatSession, error)
	GetMessagesPaged(ctx context.Context, sessionID, before string, limit int) ([]types.ChatMessage, error)
	MarkSessionRead(ctx context.Context, sessionID string) error
}

const (
	defaultMessagePageSize = 30
	markReadDebounce       = 200 * time.Millisecond

	// Broadcast bursts must not stampede the server: reloads are limited and
	// trailing triggers coalesce into one delayed reload.
	reloadInterval = 200 * time.Millisecond
	reloadBurst    = 3
)

// Router owns the widget-side reaction to classified events. Every inbound
// event is a trigger to re-fetch authoritative state; only rename and
// read-receipt events patch local state directly, as an optimistic fast-path
// superseded by the next reload.
type Router struct {
	svc   ChatService
	store *share.VisibilityStore
	myID  string

	mu               sync.Mutex
	sessions         []types.ChatSession
	messages         []types.ChatMessage
	currentSession15 string
	currentName      string
	isChatView       bool
	flash15          map[string]bool
	pageSize         int

	sessionLimiter *rate.Limiter
	pendingReload  *time.Timer
	markReadTimer  *time.Timer
}

func NewRouter(svc ChatService, store *share.VisibilityStore, myID string) *Router {
	return &Router{
		svc:            svc,
		store:          store,
		myID:           tool.Canonical(myID),
		flash15:        map[string]bool{},
		pageSize:       defaultMessagePageSize,
		sessionLimiter: rate.NewLimiter(rate.Every(reloadInterval), reloadBurst),
	}
}

// Apply executes one classified action against local state.
func (r *Router) Apply(ctx context.Context, action types.Action) {
	switch action.Kind {
	case types.ActionIgnore:
		tool.DefaultLogger.Debugf("Event ignored (%s)", action.Reason)
	case types.ActionApplyRename:
		r.applyRename(ctx, action.Session15, action.NewName)
	case types.ActionApplyReadReceipt:
		r.applyReadReceipt(ctx, action.Session15)
	case types.ActionRefreshOpenSession:
		r.reloadMessages(ctx)
	case types.ActionRefreshSessionList:
		r.reloadSessions(ctx)
	case types.ActionFlash:
		r.applyFlash(ctx, action.Session15)
	}
}

// applyRename patches the list entry and, if that conversation is open, the
// header, then reloads the list for the authoritative ordering. No flash and
// no message reload.
func (r *Router) applyRename(ctx context.Context, session15, newName string) {
	if newName == "" {
		return
	}
	r.mu.Lock()
	for i := range r.sessions {
		if tool.Canonical(r.sessions[i].SessionID) == session15 {
			r.sessions[i].Name = newName
		}
	}
	if r.isChatView && r.currentSession15 == session15 {
		r.currentName = newName
	}
	r.mu.Unlock()

	r.reloadSessions(ctx)
}

// applyReadReceipt refreshes per-message unread counters when the affected
// conversation is open, otherwise the aggregate badge in the list.
func (r *Router) applyReadReceipt(ctx context.Context, session15 string) {
	r.mu.Lock()
	open := r.isChatView && r.currentSession15 == session15
	r.mu.Unlock()
	if open {
		r.reloadMessages(ctx)
	} else {
		r.reloadSessions(ctx)
	}
}

// applyFlash marks the session's list entry as flashed and refreshes the
// list. This flag set is independent of the panel-level blink: many entries
// can be flagged while at most one panel blink runs.
func (r *Router) applyFlash(ctx context.Context, session15 string) {
	r.mu.Lock()
	r.flash15[session15] = true
	r.mu.Unlock()
	r.reloadSessions(ctx)
}

// OpenSession navigates into a conversation: chat view on, flash flag
// cleared, messages loaded, visibility state shared, read mark scheduled.
func (r *Router) OpenSession(ctx context.Context, sessionID, name string) {
	session15 := tool.Canonical(sessionID)
	r.mu.Lock()
	r.currentSession15 = session15
	r.currentName = name
	r.isChatView = true
	delete(r.flash15, session15)
	r.mu.Unlock()

	r.store.SetActiveSession(sessionID, true)
	r.reloadMessages(ctx)
	r.ScheduleMarkRead(ctx)
}

// OpenList navigates back to the session list.
func (r *Router) OpenList(ctx context.Context) {
	r.mu.Lock()
	r.currentSession15 = ""
	r.currentName = ""
	r.isChatView = false
	r.mu.Unlock()

	r.store.SetActiveSession("", false)
	r.reloadSessions(ctx)
}

// ScheduleMarkRead debounces the mark-as-read RPC; rapid scroll events and
// message loads collapse into one call.
func (r *Router) ScheduleMarkRead(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isChatView || r.currentSession15 == "" {
		return
	}
	if r.markReadTimer != nil {
		r.markReadTimer.Stop()
	}
	r.markReadTimer = time.AfterFunc(markReadDebounce, func() {
		r.markCurrentRead(ctx)
	})
}

func (r *Router) markCurrentRead(ctx context.Context) {
	r.mu.Lock()
	session15 := r.currentSession15
	r.mu.Unlock()
	if session15 == "" {
		return
	}
	if err := r.svc.MarkSessionRead(ctx, session15); err != nil {
		// UI refresh failure never breaks chat; the badge catches up on the
		// next reload.
		tool.DefaultLogger.Debugf("Mark session read failed: %v", err)
		return
	}
	r.reloadSessions(ctx)
}

// reloadSessions fetches the authoritative session list and re-derives the
// shared muted set from it. Bursts coalesce through the rate limiter into a
// single trailing reload.
func (r *Router) reloadSessions(ctx context.Context) {
	if !r.sessionLimiter.Allow() {
		r.mu.Lock()
		if r.pendingReload == nil {
			r.pendingReload = time.AfterFunc(reloadInterval, func() {
				r.mu.Lock()
				r.pendingReload = nil
				r.mu.Unlock()
				r.reloadSessions(ctx)
			})
		}
		r.mu.Unlock()
		return
	}

	sessions, err := r.svc.GetChatSessions(ctx)
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to load sessions: %v", err)
		return
	}

	var muted []string
	for _, s := range sessions {
		if s.IsMuted {
			muted = append(muted, s.SessionID)
		}
	}
	r.store.ReplaceMuted(muted)

	r.mu.Lock()
	r.sessions = sessions
	r.mu.Unlock()
}

func (r *Router) reloadMessages(ctx context.Context) {
	r.mu.Lock()
	session15 := r.currentSession15
	pageSize := r.pageSize
	r.mu.Unlock()
	if session15 == "" {
		return
	}
	messages, err := r.svc.GetMessagesPaged(ctx, session15, "", pageSize)
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to load messages: %v", err)
		return
	}
	r.mu.Lock()
	if r.currentSession15 == session15 {
		r.messages = messages
	}
	r.mu.Unlock()
}

// Sessions returns a copy of the current session list.
func (r *Router) Sessions() []types.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.ChatSession, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Messages returns a copy of the open conversation's messages.
func (r *Router) Messages() []types.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.ChatMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

// CurrentSessionName returns the open conversation's display name.
func (r *Router) CurrentSessionName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentName
}

// IsFlashed reports whether a session's list entry carries the flash flag.
func (r *Router) IsFlashed(session15 string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flash15[session15]
}

// Close cancels pending timers.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markReadTimer != nil {
		r.markReadTimer.Stop()
		r.markReadTimer = nil
	}
	if r.pendingReload != nil {
		r.pendingReload.Stop()
		r.pendingReload = nil
	}
}
