package models

import "encoding/json"

// ChatRequest is the payload coming from a chat transport into the engine.
type ChatRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	RestaurantID   string `json:"restaurant_id" binding:"required"`
	Text           string `json:"text"`
	SenderName     string `json:"sender_name,omitempty"`
	SenderPhone    string `json:"sender_phone,omitempty"`
}

// Button is a quick-reply option rendered by rich transports. Value is fed
// back through the same path as typed text when pressed.
type Button struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// ChatResponse is what the engine returns to a transport.
type ChatResponse struct {
	Text              string          `json:"text"`
	Buttons           []Button        `json:"buttons,omitempty"`
	ButtonType        string          `json:"button_type,omitempty"` // "date", "time", "guests", "confirm"
	Reservation       *Reservation    `json:"reservation,omitempty"`
	ConversationState json.RawMessage `json:"conversation_state,omitempty"`
}

// VoiceChatRequest carries an audio payload for the voice channel.
type VoiceChatRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	RestaurantID   string `json:"restaurant_id" binding:"required"`
	AudioBase64    string `json:"audio_base64" binding:"required"`
	SenderName     string `json:"sender_name,omitempty"`
	SenderPhone    string `json:"sender_phone,omitempty"`
}
