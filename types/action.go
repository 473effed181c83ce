package types

// ActionKind classifies what a broadcast event should do to the local UI.
type ActionKind int

const (
	ActionIgnore ActionKind = iota
	ActionFlash
	ActionRefreshOpenSession
	ActionRefreshSessionList
	ActionApplyRename
	ActionApplyReadReceipt
)

// Ignore reasons, used for logging and tests only.
const (
	IgnoreReasonSelf             = "self"
	IgnoreReasonUntrusted        = "untrusted"
	IgnoreReasonNotParticipant   = "not-participant"
	IgnoreReasonUnrecognizedType = "unrecognized-type"
	IgnoreReasonMuted            = "muted"
	IgnoreReasonNoSession        = "no-session"
)

// Action is the result of classifying one decoded event against local state.
type Action struct {
	Kind      ActionKind
	Session15 string // canonical session id, set for Flash/rename/receipt
	NewName   string // set for ActionApplyRename
	Reason    string // set for ActionIgnore
}

func (k ActionKind) String() string {
	switch k {
	case ActionIgnore:
		return "ignore"
	case ActionFlash:
		return "flash"
	case ActionRefreshOpenSession:
		return "refresh-open-session"
	case ActionRefreshSessionList:
		return "refresh-session-list"
	case ActionApplyRename:
		return "apply-rename"
	case ActionApplyReadReceipt:
		return "apply-read-receipt"
	}
	return "unknown"
}
