package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/chatflash-go/tool"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// GenerateConnectQRCode returns a PNG QR code image for a client connect URL.
// GET ?size=200x200&data=<url-encoded-content>; data defaults to this hub's
// own websocket URL so a test client on another machine can scan and connect.
func GenerateConnectQRCode(connectURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := c.Query("data")
		if data == "" {
			data = connectURL
		}
		if data == "" {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: data"))
			return
		}

		size := parseSize(c.Query("size"))
		if size <= 0 {
			size = defaultQRSize
		}
		if size > maxQRSize {
			size = maxQRSize
		}

		png, err := qrcode.Encode(data, qrcode.Medium, size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	}
}

// parseSize parses size from "200x200" or "200" and returns the pixel dimension.
func parseSize(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, "x"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
