// Package share holds the cross-component visibility state: which session the
// chat widget has open, whether it shows the chat view, and which sessions
// are muted. The widget writes it, the notifier only reads it.
package share

import (
	"errors"
	"os"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

// VisibilityStore is a write-through file-backed store. There is exactly one
// writer (the widget side), so last-write-wins is enough; the mutex only
// guards in-process read/write interleaving.
type VisibilityStore struct {
	mu    sync.RWMutex
	path  string
	state types.VisibilityState
}

// OpenVisibilityStore loads the state file at path, or starts fresh when it
// does not exist. A fresh store means no active session, list view, nothing
// muted; the state is per-install and intentionally resets with it.
func OpenVisibilityStore(path string) (*VisibilityStore, error) {
	s := &VisibilityStore{
		path:  path,
		state: types.VisibilityState{Muted15: map[string]bool{}},
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := sonic.Unmarshal(data, &s.state); err != nil {
		// A corrupt state file is not worth failing startup over. Start fresh.
		tool.DefaultLogger.Warnf("Visibility state file unreadable, resetting: %v", err)
		s.state = types.VisibilityState{Muted15: map[string]bool{}}
	}
	if s.state.Muted15 == nil {
		s.state.Muted15 = map[string]bool{}
	}
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *VisibilityStore) Snapshot() types.VisibilityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *VisibilityStore) copyLocked() types.VisibilityState {
	muted := make(map[string]bool, len(s.state.Muted15))
	for k, v := range s.state.Muted15 {
		muted[k] = v
	}
	return types.VisibilityState{
		ActiveSession15: s.state.ActiveSession15,
		IsChatView:      s.state.IsChatView,
		Muted15:         muted,
	}
}

// SetActiveSession records the session the widget currently shows and whether
// the chat view (vs. the list view) is open. Called on every navigation
// transition.
func (s *VisibilityStore) SetActiveSession(sessionID string, isChatView bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveSession15 = tool.Canonical(sessionID)
	s.state.IsChatView = isChatView
	s.persistLocked()
}

// SetMuted toggles the mute flag of one session.
func (s *VisibilityStore) SetMuted(sessionID string, muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tool.Canonical(sessionID)
	if key == "" {
		return
	}
	if muted {
		s.state.Muted15[key] = true
	} else {
		delete(s.state.Muted15, key)
	}
	s.persistLocked()
}

// ReplaceMuted swaps the whole muted set, canonicalizing every id. Used when
// the widget re-derives mute flags from a fresh session list.
func (s *VisibilityStore) ReplaceMuted(sessionIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	muted := make(map[string]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		if key := tool.Canonical(id); key != "" {
			muted[key] = true
		}
	}
	s.state.Muted15 = muted
	s.persistLocked()
}

// Reload re-reads the state file. Reader-side components poll through this
// when the writer lives in another process.
func (s *VisibilityStore) Reload() types.VisibilityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err == nil {
		var fresh types.VisibilityState
		if err := sonic.Unmarshal(data, &fresh); err == nil {
			if fresh.Muted15 == nil {
				fresh.Muted15 = map[string]bool{}
			}
			s.state = fresh
		}
	}
	return s.copyLocked()
}

func (s *VisibilityStore) persistLocked() {
	data, err := sonic.Marshal(s.state)
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to serialize visibility state: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		// Persist failures degrade to in-memory state; the notifier in the
		// same process still sees correct values.
		tool.DefaultLogger.Warnf("Failed to persist visibility state: %v", err)
	}
}
