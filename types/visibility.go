package types

// VisibilityState is the widget-side navigation state shared with the
// notifier. The widget is the only writer; the notifier polls it read-only.
type VisibilityState struct {
	ActiveSession15 string          `json:"activeSession15"`
	IsChatView      bool            `json:"isChatView"`
	Muted15         map[string]bool `json:"mutedSessions15"`
}

// IsMuted reports whether the canonical session id is muted.
func (v VisibilityState) IsMuted(session15 string) bool {
	return v.Muted15[session15]
}

// VisibilityContext is everything the event filter needs to decide between
// flashing and refreshing: the shared navigation state plus whether the host
// panel is currently visible at all.
type VisibilityContext struct {
	PanelVisible bool
	State        VisibilityState
}
