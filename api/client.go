// Package api holds the chat server RPC client and the local dev hub server.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

// Client calls the chat server's RPC endpoints. The business rules behind
// them live server-side; this client only carries the call contracts.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: tool.GetHttpClient()}
}

// GetChatSessions fetches the session list.
func (c *Client) GetChatSessions(ctx context.Context) ([]types.ChatSession, error) {
	var out []types.ChatSession
	if err := c.call(ctx, http.MethodGet, "/api/chat/v1/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMessagesPaged fetches one page of messages older than before (empty
// before means the newest page).
func (c *Client) GetMessagesPaged(ctx context.Context, sessionID, before string, limit int) ([]types.ChatMessage, error) {
	req := map[string]any{"sessionId": sessionID, "before": before, "limitSize": limit}
	var out []types.ChatMessage
	if err := c.call(ctx, http.MethodPost, "/api/chat/v1/messages-paged", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts a message, optionally quoting another.
func (c *Client) SendMessage(ctx context.Context, sessionID, content, replyToID string) error {
	req := map[string]any{"sessionId": sessionID, "content": content, "replyToId": replyToID}
	return c.call(ctx, http.MethodPost, "/api/chat/v1/send-message", req, nil)
}

// MarkSessionRead moves the local user's read cursor to now.
func (c *Client) MarkSessionRead(ctx context.Context, sessionID string) error {
	return c.call(ctx, http.MethodPost, "/api/chat/v1/mark-read", map[string]any{"sessionId": sessionID}, nil)
}

// RenameChatSession renames a conversation.
func (c *Client) RenameChatSession(ctx context.Context, sessionID, name string) error {
	return c.call(ctx, http.MethodPost, "/api/chat/v1/rename", map[string]any{"sessionId": sessionID, "name": name}, nil)
}

// SetMuted toggles a conversation's mute flag for the local user.
func (c *Client) SetMuted(ctx context.Context, sessionID string, muted bool) error {
	return c.call(ctx, http.MethodPost, "/api/chat/v1/set-muted", map[string]any{"sessionId": sessionID, "muted": muted}, nil)
}

// SetPinned toggles a conversation's pin flag for the local user.
func (c *Client) SetPinned(ctx context.Context, sessionID string, pinned bool) error {
	return c.call(ctx, http.MethodPost, "/api/chat/v1/set-pinned", map[string]any{"sessionId": sessionID, "pinned": pinned}, nil)
}

// InviteParticipants adds users to a conversation.
func (c *Client) InviteParticipants(ctx context.Context, sessionID string, userIDs []string) error {
	return c.call(ctx, http.MethodPost, "/api/chat/v1/invite", map[string]any{"sessionId": sessionID, "userIds": userIDs}, nil)
}

// LeaveChatSession removes the local user from a conversation.
func (c *Client) LeaveChatSession(ctx context.Context, sessionID string) error {
	return c.call(ctx, http.MethodPost, "/api/chat/v1/leave", map[string]any{"sessionId": sessionID}, nil)
}

// DeleteChatSession deletes a conversation.
func (c *Client) DeleteChatSession(ctx context.Context, sessionID string) error {
	return c.call(ctx, http.MethodPost, "/api/chat/v1/delete", map[string]any{"sessionId": sessionID}, nil)
}

// GetParticipants lists a conversation's members.
func (c *Client) GetParticipants(ctx context.Context, sessionID string) ([]types.Participant, error) {
	req := map[string]any{"sessionId": sessionID}
	var out []types.Participant
	if err := c.call(ctx, http.MethodPost, "/api/chat/v1/participants", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to serialize request: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s: %s", path, extractErrorMessage(data, resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: failed to parse response: %v", path, err)
	}
	return nil
}

// extractErrorMessage pulls the human-readable message out of an error body
// when the server sent one, falling back to a generic status line.
func extractErrorMessage(body []byte, status int) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
