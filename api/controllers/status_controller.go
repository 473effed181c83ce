package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/chatflash-go/api/notifyhub"
	"github.com/helpdeskhq/chatflash-go/tool"
)

// HubStatus reports the subscriber count for the default channel, or for the
// channel named by the ?channel= query parameter.
func HubStatus(hub *notifyhub.Hub, defaultChannel string) gin.HandlerFunc {
	return func(c *gin.Context) {
		channel := c.Query("channel")
		if channel == "" {
			channel = defaultChannel
		}
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
			"channel":     channel,
			"subscribers": hub.SubscriberCount(channel),
		}))
	}
}
