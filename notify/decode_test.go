package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/helpdeskhq/chatflash-go/types"
)

// encodeWithHashQuotes wraps a payload into a channel envelope the way the
// upstream serializer does: JSON string body with `"` written as `#"`.
func encodeWithHashQuotes(t *testing.T, p types.NotificationPayload) []byte {
	t.Helper()
	body, err := sonic.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	mangled := strings.ReplaceAll(string(body), `"`, `#"`)
	raw, err := sonic.Marshal(types.ChannelMessage{
		Data: types.ChannelData{Payload: types.EventRecord{Body: mangled}},
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

func TestDecodeHashQuoteRoundTrip(t *testing.T) {
	in := types.NotificationPayload{
		Type:           types.EventTypeNewMessage,
		SessionID:      "a0B000000000001AAA",
		SenderID:       "005000000000002AAA",
		ParticipantIDs: []string{"005000000000002AAA", "005000000000003AAA"},
	}

	got, err := Decode(encodeWithHashQuotes(t, in))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got.Type != in.Type || got.SessionID != in.SessionID || got.SenderID != in.SenderID {
		t.Errorf("decoded payload mismatch: got %+v want %+v", got, in)
	}
	if len(got.ParticipantIDs) != 2 {
		t.Errorf("expected 2 participants, got %d", len(got.ParticipantIDs))
	}
	if got.Unrecognized {
		t.Error("NewMessage payload flagged unrecognized")
	}
}

func TestDecodeStructuredBody(t *testing.T) {
	raw := []byte(`{"data":{"payload":{"body":{"type":"SessionRenamed","sessionId":"a0B000000000001AAA","senderId":"005000000000002AAA","participantIds":["005000000000002AAA"],"newName":"Team X"}}}}`)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got.Type != types.EventTypeSessionRenamed {
		t.Errorf("expected SessionRenamed, got %q", got.Type)
	}
	if got.NewName != "Team X" {
		t.Errorf("expected newName Team X, got %q", got.NewName)
	}
}

func TestDecodeNoPayload(t *testing.T) {
	for _, raw := range []string{
		`{"data":{"payload":{}}}`,
		`{"data":{}}`,
		`{"data":{"payload":{"body":""}}}`,
	} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrNoPayload) {
			t.Errorf("Decode(%s): expected ErrNoPayload, got %v", raw, err)
		}
	}
}

func TestDecodeParseError(t *testing.T) {
	raw := []byte(`{"data":{"payload":{"body":"{not json at all"}}}`)
	if _, err := Decode(raw); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	if _, err := Decode([]byte(`garbage`)); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse for bad envelope, got %v", err)
	}
}

func TestDecodeUnknownTypeRetained(t *testing.T) {
	in := types.NotificationPayload{
		Type:           "FutureThing",
		SessionID:      "a0B000000000001AAA",
		SenderID:       "005000000000002AAA",
		ParticipantIDs: []string{"005000000000002AAA"},
	}
	got, err := Decode(encodeWithHashQuotes(t, in))
	if err != nil {
		t.Fatalf("unknown type must not be a decode error, got %v", err)
	}
	if !got.Unrecognized {
		t.Error("unknown type should be flagged unrecognized")
	}

	in.Type = ""
	got, err = Decode(encodeWithHashQuotes(t, in))
	if err != nil {
		t.Fatalf("missing type must not be a decode error, got %v", err)
	}
	if !got.Unrecognized {
		t.Error("missing type should be flagged unrecognized")
	}
}
