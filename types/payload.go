package types

// Event types carried by the broadcast channel. Unknown values are kept but
// flagged so the filter can drop them without treating the event as fatal.
const (
	EventTypeNewMessage     = "NewMessage"
	EventTypeSystem         = "System"
	EventTypeReadReceipt    = "ReadReceipt"
	EventTypeSessionRenamed = "SessionRenamed"
)

// NotificationPayload is the decoded body of one broadcast event.
type NotificationPayload struct {
	Type           string   `json:"type"`
	SessionID      string   `json:"sessionId"`
	SenderID       string   `json:"senderId"`
	ParticipantIDs []string `json:"participantIds"`
	NewName        string   `json:"newName,omitempty"`

	// Unrecognized marks a payload whose type field is missing or not one of
	// the event type constants. Set by the decoder, consumed by the filter.
	Unrecognized bool `json:"-"`
}

// RecognizedType reports whether t is one of the event type constants.
func RecognizedType(t string) bool {
	switch t {
	case EventTypeNewMessage, EventTypeSystem, EventTypeReadReceipt, EventTypeSessionRenamed:
		return true
	}
	return false
}

// ChannelMessage is the transport envelope delivered on the broadcast channel.
// Body is either a JSON object or a string holding JSON that the upstream
// serializer mangled by writing `#"` in place of `"`.
type ChannelMessage struct {
	Data ChannelData `json:"data"`
}

type ChannelData struct {
	Payload EventRecord `json:"payload"`
}

type EventRecord struct {
	Body any `json:"body"`
}

// SubscribeFrame is the first frame a client sends after connecting to the
// channel endpoint. ReplayID -1 means "only new events from now".
type SubscribeFrame struct {
	Channel  string `json:"channel"`
	ReplayID int    `json:"replayId"`
}
