// File: appointmint/handlers/webhook.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	restaurantRepoPkg "appointmint/database/repository/restaurant"
	"appointmint/models"
	"appointmint/services/assistant"
	"appointmint/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// chatwootHTTPClient is shared by all outbound Chatwoot calls.
var chatwootHTTPClient = &http.Client{Timeout: 10 * time.Second}

// chatwootSender is the message author in a webhook payload.
type chatwootSender struct {
	Name  string `json:"name"`
	Phone string `json:"phone_number"`
}

// chatwootMessage mirrors the fields we read from Chatwoot's message object.
// MessageType arrives as "incoming" or as the numeric code 0.
type chatwootMessage struct {
	Content        string          `json:"content"`
	MessageType    json.RawMessage `json:"message_type"`
	ConversationID json.Number     `json:"conversation_id"`
	Sender         chatwootSender  `json:"sender"`
}

// chatwootWebhookPayload covers both the regular webhook and the Agent Bot
// payload shapes.
type chatwootWebhookPayload struct {
	Event        string          `json:"event"`
	Message      chatwootMessage `json:"message"`
	Conversation struct {
		ID json.Number `json:"id"`
	} `json:"conversation"`
	ConversationID json.Number    `json:"conversation_id"`
	Sender         chatwootSender `json:"sender"`
}

func (p *chatwootWebhookPayload) conversationID() string {
	for _, id := range []json.Number{p.Conversation.ID, p.ConversationID, p.Message.ConversationID} {
		if id.String() != "" {
			return id.String()
		}
	}
	return ""
}

func (p *chatwootWebhookPayload) senderName() string {
	if p.Message.Sender.Name != "" {
		return p.Message.Sender.Name
	}
	return p.Sender.Name
}

func (p *chatwootWebhookPayload) senderPhone() string {
	if p.Message.Sender.Phone != "" {
		return p.Message.Sender.Phone
	}
	return p.Sender.Phone
}

// isIncoming accepts "incoming", 0, and "0". Chatwoot uses 0 for incoming,
// 1 for outgoing, 2 for activity.
func (m *chatwootMessage) isIncoming() bool {
	raw := strings.Trim(string(m.MessageType), `"`)
	return raw == "incoming" || raw == "0"
}

// ChatwootWebhookHandler receives Chatwoot events for the restaurant bound
// to the webhook token and relays engine replies back through the Chatwoot
// conversation API.
func ChatwootWebhookHandler(svc assistant.AssistantService, restaurants restaurantRepoPkg.RestaurantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		restaurant, err := restaurants.GetByWebhookToken(c.Param("token"))
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "restaurant lookup failed")
			return
		}
		if restaurant == nil {
			logger.Warn("chatwoot webhook with unknown token")
			utils.JSONError(c, http.StatusUnauthorized, "invalid webhook token")
			return
		}

		var payload chatwootWebhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
			return
		}

		switch payload.Event {
		case "message_created":
			if !payload.Message.isIncoming() {
				c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": "not an incoming message"})
				return
			}
			if payload.Message.Content == "" {
				c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": "empty message"})
				return
			}
			convID := payload.conversationID()
			if convID == "" {
				utils.JSONError(c, http.StatusBadRequest, "no conversation_id in payload")
				return
			}

			resp, err := svc.HandleMessage(c.Request.Context(), models.ChatRequest{
				ConversationID: "chatwoot:" + convID,
				RestaurantID:   restaurant.ID,
				Text:           payload.Message.Content,
				SenderName:     payload.senderName(),
				SenderPhone:    payload.senderPhone(),
			})
			if err != nil {
				logger.Error("chatwoot chat turn failed",
					zap.String("restaurant_id", restaurant.ID), zap.Error(err))
				utils.JSONError(c, http.StatusInternalServerError, "failed to process message")
				return
			}

			if err := sendChatwootReply(restaurant, convID, renderPlainReply(resp)); err != nil {
				logger.Error("chatwoot relay failed",
					zap.String("restaurant_id", restaurant.ID), zap.Error(err))
			}
			c.JSON(http.StatusOK, gin.H{"status": "success", "response_sent": true})

		case "conversation_created":
			convID := payload.conversationID()
			welcome := restaurant.Widget.WelcomeMessage
			if welcome == "" {
				welcome = fmt.Sprintf("Hello! Welcome to %s. How can I help you with your reservation today?", restaurant.Name)
			}
			if err := sendChatwootReply(restaurant, convID, welcome); err != nil {
				logger.Error("chatwoot welcome failed",
					zap.String("restaurant_id", restaurant.ID), zap.Error(err))
			}
			c.JSON(http.StatusOK, gin.H{"status": "success", "welcome_sent": true})

		default:
			c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": "unhandled event " + payload.Event})
		}
	}
}

// renderPlainReply flattens a rich engine response for a text-only channel.
// Buttons become numbered options and confirmation markers are stripped.
func renderPlainReply(resp *models.ChatResponse) string {
	text := assistant.StripConfirmationMarkers(resp.Text)
	if len(resp.Buttons) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for i, btn := range resp.Buttons {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, btn.Display))
	}
	return b.String()
}

// sendChatwootReply posts an outgoing message on the Chatwoot conversation.
func sendChatwootReply(restaurant *models.Restaurant, conversationID, message string) error {
	cw := restaurant.Chatwoot
	if cw.APIToken == "" || cw.BaseURL == "" || cw.AccountID == "" {
		return fmt.Errorf("chatwoot credentials not configured for restaurant %s", restaurant.ID)
	}

	url := fmt.Sprintf("%s/api/v1/accounts/%s/conversations/%s/messages",
		strings.TrimRight(cw.BaseURL, "/"), cw.AccountID, conversationID)
	body, err := json.Marshal(map[string]string{
		"content":      message,
		"message_type": "outgoing",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_access_token", cw.APIToken)

	resp, err := chatwootHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("chatwoot request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chatwoot returned status %d", resp.StatusCode)
	}
	return nil
}

// ChatwootWebhookTestHandler verifies a webhook token and reports whether
// the restaurant's Chatwoot relay is fully configured.
func ChatwootWebhookTestHandler(restaurants restaurantRepoPkg.RestaurantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurant, err := restaurants.GetByWebhookToken(c.Param("token"))
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "restaurant lookup failed")
			return
		}
		if restaurant == nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid webhook token")
			return
		}
		cw := restaurant.Chatwoot
		c.JSON(http.StatusOK, gin.H{
			"status":              "ok",
			"restaurant_id":       restaurant.ID,
			"restaurant_name":     restaurant.Name,
			"chatwoot_configured": cw.APIToken != "" && cw.BaseURL != "" && cw.AccountID != "",
		})
	}
}
