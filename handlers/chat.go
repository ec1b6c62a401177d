// File: appointmint/handlers/chat.go
package handlers

import (
	"net/http"

	"appointmint/models"
	"appointmint/services/assistant"
	"appointmint/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler feeds a widget message through the conversation engine.
func ChatHandler(svc assistant.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid chat payload", err.Error())
			return
		}

		resp, err := svc.HandleMessage(c.Request.Context(), req)
		if err != nil {
			logger.Error("chat turn failed",
				zap.String("restaurant_id", req.RestaurantID),
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to process message")
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
