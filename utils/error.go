package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body every failed request carries. Guests only see a
// plain-language message; internals stay in the logs.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers panics from downstream handlers so stack traces and
// storage details never reach the guest.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("panic while handling request",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "something went wrong on our side, please try again",
				})
			}
		}()
		c.Next()
	}
}

// JSONError writes the standard error body. Callers with useful context log
// it themselves before calling; this only shapes the response.
func JSONError(c *gin.Context, status int, message string, details ...string) {
	resp := ErrorResponse{Error: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	c.JSON(status, resp)
}
