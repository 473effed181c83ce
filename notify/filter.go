package notify

import (
	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

// Classify decides what a decoded event means for this client. Gates run in a
// fixed order and short-circuit; the membership gate in particular must run
// before anything that touches UI state, because the channel is an org-wide
// broadcast with no per-subscriber filtering.
func Classify(p *types.NotificationPayload, myID string, vis types.VisibilityContext) types.Action {
	if p == nil {
		return ignore(types.IgnoreReasonUntrusted)
	}

	my15 := tool.Canonical(myID)

	// Self-origin gate. Read receipts are exempt: the reader's own receipt
	// must still update the unread counters everywhere.
	if p.Type != types.EventTypeReadReceipt {
		sender15 := tool.Canonical(p.SenderID)
		if sender15 != "" && my15 != "" && sender15 == my15 {
			return ignore(types.IgnoreReasonSelf)
		}
	}

	// Membership gate. A payload without participants is a legacy/foreign
	// event; fail closed rather than leak a notification for someone else's
	// session.
	if len(p.ParticipantIDs) == 0 {
		return ignore(types.IgnoreReasonUntrusted)
	}
	if !tool.ContainsCanonical(p.ParticipantIDs, my15) {
		return ignore(types.IgnoreReasonNotParticipant)
	}

	if p.Unrecognized || !types.RecognizedType(p.Type) {
		return ignore(types.IgnoreReasonUnrecognizedType)
	}

	session15 := tool.Canonical(p.SessionID)

	switch p.Type {
	case types.EventTypeSessionRenamed:
		if session15 == "" {
			return ignore(types.IgnoreReasonNoSession)
		}
		return types.Action{Kind: types.ActionApplyRename, Session15: session15, NewName: p.NewName}
	case types.EventTypeReadReceipt:
		if session15 == "" {
			return ignore(types.IgnoreReasonNoSession)
		}
		return types.Action{Kind: types.ActionApplyReadReceipt, Session15: session15}
	}

	// NewMessage / System from here on.
	if session15 == "" {
		return ignore(types.IgnoreReasonNoSession)
	}
	if vis.State.IsMuted(session15) {
		return ignore(types.IgnoreReasonMuted)
	}

	if !vis.PanelVisible {
		return types.Action{Kind: types.ActionFlash, Session15: session15}
	}
	// Visible: list view never counts as reading a conversation.
	if !vis.State.IsChatView || vis.State.ActiveSession15 == "" {
		return types.Action{Kind: types.ActionFlash, Session15: session15}
	}
	if vis.State.ActiveSession15 != session15 {
		return types.Action{Kind: types.ActionFlash, Session15: session15}
	}
	return types.Action{Kind: types.ActionRefreshOpenSession, Session15: session15}
}

func ignore(reason string) types.Action {
	return types.Action{Kind: types.ActionIgnore, Reason: reason}
}
