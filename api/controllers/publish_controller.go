package controllers

import (
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/chatflash-go/api/notifyhub"
	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/helpdeskhq/chatflash-go/types"
)

// publishRequest is the body of POST /api/hub/v1/publish. Payload holds the
// event as a JSON object; HashEscaped asks the hub to deliver it as a string
// body with `"` rewritten to `#"`, mimicking the upstream serializer.
type publishRequest struct {
	Channel     string                    `json:"channel"`
	Payload     types.NotificationPayload `json:"payload"`
	HashEscaped bool                      `json:"hashEscaped"`
}

// PublishEvent wraps a posted event in the channel envelope and fans it out
// to every subscriber of the target channel.
func PublishEvent(hub *notifyhub.Hub, defaultChannel string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req publishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid publish request: "+err.Error()))
			return
		}
		channel := req.Channel
		if channel == "" {
			channel = defaultChannel
		}
		if channel == "" {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: channel"))
			return
		}

		var body any = req.Payload
		if req.HashEscaped {
			raw, err := sonic.Marshal(req.Payload)
			if err != nil {
				c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode payload: "+err.Error()))
				return
			}
			body = strings.ReplaceAll(string(raw), `"`, `#"`)
		}

		envelope := &types.ChannelMessage{
			Data: types.ChannelData{
				Payload: types.EventRecord{Body: body},
			},
		}
		eventID := tool.GenerateShortEventID()
		delivered := hub.Publish(channel, envelope)
		tool.DefaultLogger.Info("published event", "event", eventID, "channel", channel, "type", req.Payload.Type, "delivered", delivered)

		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
			"event":     eventID,
			"delivered": delivered,
		}))
	}
}
