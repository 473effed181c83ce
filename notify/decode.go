// Package notify decodes broadcast chat notifications and classifies them
// against local identity and visibility state. Decode and Classify are the
// single implementation shared by the flash notifier and the chat widget.
package notify

import (
	"errors"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/helpdeskhq/chatflash-go/types"
)

var (
	// ErrNoPayload means the envelope carried no payload body at all.
	ErrNoPayload = errors.New("notify: envelope has no payload body")
	// ErrParse means the payload body could not be parsed as JSON even after
	// unescaping. The event is dropped; this never propagates past the caller.
	ErrParse = errors.New("notify: payload body parse failed")
)

// UnescapeBody reverses the upstream serializer's quoting artifact: it writes
// `#"` where the payload JSON contains `"`.
func UnescapeBody(raw string) string {
	return strings.ReplaceAll(raw, `#"`, `"`)
}

// Decode extracts and parses the notification payload from one raw channel
// message. The body field is either an already-structured JSON object or a
// string of (possibly `#"`-mangled) JSON. A payload whose type field is
// missing or unknown is returned with Unrecognized set rather than rejected,
// so the filter can drop it with a reason.
func Decode(raw []byte) (*types.NotificationPayload, error) {
	var envelope types.ChannelMessage
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, ErrParse
	}
	body := envelope.Data.Payload.Body
	if body == nil {
		return nil, ErrNoPayload
	}

	var payload types.NotificationPayload
	switch v := body.(type) {
	case string:
		if v == "" {
			return nil, ErrNoPayload
		}
		if err := sonic.Unmarshal([]byte(UnescapeBody(v)), &payload); err != nil {
			return nil, ErrParse
		}
	default:
		// Already-structured object: re-marshal through sonic into the typed
		// payload rather than walking map[string]any by hand.
		wire, err := sonic.Marshal(v)
		if err != nil {
			return nil, ErrParse
		}
		if err := sonic.Unmarshal(wire, &payload); err != nil {
			return nil, ErrParse
		}
	}

	payload.Unrecognized = !types.RecognizedType(payload.Type)
	return &payload, nil
}
