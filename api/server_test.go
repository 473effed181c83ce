package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/helpdeskhq/chatflash-go/notify"
	"github.com/helpdeskhq/chatflash-go/types"
)

const testChannel = "/event/chat-notification"

func startHubServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := NewServer(0, testChannel)
	ts := httptest.NewServer(s.setupRoutes())
	t.Cleanup(ts.Close)
	return s, ts
}

func dialChannel(t *testing.T, ts *httptest.Server, channel string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	frame := types.SubscribeFrame{Channel: channel, ReplayID: -1}
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("subscribe frame: %v", err)
	}
	return conn
}

func postPublish(t *testing.T, ts *httptest.Server, req map[string]any) *http.Response {
	t.Helper()
	body, err := sonic.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(ts.URL+"/api/hub/v1/publish", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func waitForSubscriber(t *testing.T, s *Server, channel string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Hub().SubscriberCount(channel) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no subscriber registered on %s", channel)
}

func TestPublishDeliversEnvelopeToSubscriber(t *testing.T) {
	s, ts := startHubServer(t)
	conn := dialChannel(t, ts, testChannel)
	waitForSubscriber(t, s, testChannel)

	resp := postPublish(t, ts, map[string]any{
		"payload": map[string]any{
			"type":           types.EventTypeNewMessage,
			"sessionId":      "a0B00000000000AXXX",
			"senderId":       "005000000000001AAA",
			"participantIds": []string{"005000000000002BBB"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish status = %d", resp.StatusCode)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	payload, err := notify.Decode(raw)
	if err != nil {
		t.Fatalf("decode delivered envelope: %v", err)
	}
	if payload.Type != types.EventTypeNewMessage || payload.SessionID != "a0B00000000000AXXX" {
		t.Errorf("delivered payload = %+v", payload)
	}
}

func TestPublishHashEscapedRoundTrips(t *testing.T) {
	s, ts := startHubServer(t)
	conn := dialChannel(t, ts, testChannel)
	waitForSubscriber(t, s, testChannel)

	postPublish(t, ts, map[string]any{
		"hashEscaped": true,
		"payload": map[string]any{
			"type":      types.EventTypeSessionRenamed,
			"sessionId": "a0B00000000000AXXX",
			"senderId":  "005000000000001AAA",
			"newName":   `Team "North"`,
		},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	if !bytes.Contains(raw, []byte(`#"`)) {
		t.Fatalf("hashEscaped delivery should carry #\" markers: %s", raw)
	}
	payload, err := notify.Decode(raw)
	if err != nil {
		t.Fatalf("decode escaped envelope: %v", err)
	}
	if payload.NewName != `Team "North"` {
		t.Errorf("NewName = %q after round trip", payload.NewName)
	}
}

func TestPublishToOtherChannelNotDelivered(t *testing.T) {
	s, ts := startHubServer(t)
	conn := dialChannel(t, ts, testChannel)
	waitForSubscriber(t, s, testChannel)

	postPublish(t, ts, map[string]any{
		"channel": "/event/other",
		"payload": map[string]any{"type": types.EventTypeNewMessage},
	})

	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("subscriber of a different channel received the event")
	}
}

func TestStatusReportsSubscriberCount(t *testing.T) {
	s, ts := startHubServer(t)
	dialChannel(t, ts, testChannel)
	waitForSubscriber(t, s, testChannel)

	resp, err := http.Get(ts.URL + "/api/hub/v1/status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		Data struct {
			Channel     string `json:"channel"`
			Subscribers int    `json:"subscribers"`
		} `json:"data"`
	}
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if out.Data.Channel != testChannel || out.Data.Subscribers != 1 {
		t.Errorf("status = %+v", out.Data)
	}
}

func TestQRCodeReturnsPNG(t *testing.T) {
	_, ts := startHubServer(t)
	resp, err := http.Get(ts.URL + "/api/hub/v1/qrcode?data=ws://127.0.0.1:53340/ws&size=128x128")
	if err != nil {
		t.Fatalf("qrcode: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
}
