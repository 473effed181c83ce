// Package middlewares holds gin middleware for the local dev hub API.
package middlewares

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OnlyAllowLocal rejects any request that does not originate from a loopback
// address. The hub's publish and status endpoints are debug surfaces and must
// never be reachable from the network.
func OnlyAllowLocal(c *gin.Context) {
	ip := net.ParseIP(c.ClientIP())
	if ip == nil || !ip.IsLoopback() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	c.Next()
}
