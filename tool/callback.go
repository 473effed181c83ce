package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

// Small response builders for the hub API, so every endpoint returns the same
// {"error"} / {"status"} / {"data"} shapes the client's error extractor reads.

func FastReturnError(msg string) gin.H {
	return gin.H{
		"error": msg,
	}
}

func FastReturnSuccess() gin.H {
	return gin.H{
		"status": "ok",
	}
}

func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{
		"data": data,
	}
}

func FastReturnErrorWithData(msg string, extra map[string]any) gin.H {
	resp := gin.H{
		"error": msg,
	}
	maps.Copy(resp, extra)
	return resp
}
