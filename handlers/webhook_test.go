package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"appointmint/models"
	"appointmint/services/assistant"
)

func TestChatwootPayloadShapes(t *testing.T) {
	// Regular webhook shape: string message_type, conversation object.
	regular := `{
		"event": "message_created",
		"message": {"content": "hi", "message_type": "incoming", "sender": {"name": "Maria"}},
		"conversation": {"id": 42}
	}`
	var p chatwootWebhookPayload
	if err := json.Unmarshal([]byte(regular), &p); err != nil {
		t.Fatal(err)
	}
	if !p.Message.isIncoming() {
		t.Error("string message_type not detected as incoming")
	}
	if p.conversationID() != "42" {
		t.Errorf("conversation id = %q", p.conversationID())
	}
	if p.senderName() != "Maria" {
		t.Errorf("sender = %q", p.senderName())
	}

	// Agent Bot shape: numeric message_type, top-level conversation id.
	bot := `{
		"event": "message_created",
		"message": {"content": "hi", "message_type": 0, "conversation_id": 7},
		"sender": {"name": "Jonas"}
	}`
	p = chatwootWebhookPayload{}
	if err := json.Unmarshal([]byte(bot), &p); err != nil {
		t.Fatal(err)
	}
	if !p.Message.isIncoming() {
		t.Error("numeric message_type not detected as incoming")
	}
	if p.conversationID() != "7" {
		t.Errorf("conversation id = %q", p.conversationID())
	}
	if p.senderName() != "Jonas" {
		t.Errorf("sender = %q", p.senderName())
	}

	// Outgoing messages are filtered.
	outgoing := `{"message": {"content": "reply", "message_type": 1}}`
	p = chatwootWebhookPayload{}
	if err := json.Unmarshal([]byte(outgoing), &p); err != nil {
		t.Fatal(err)
	}
	if p.Message.isIncoming() {
		t.Error("outgoing message treated as incoming")
	}
}

func TestRenderPlainReply(t *testing.T) {
	resp := &models.ChatResponse{
		Text: assistant.ConfirmationStart + "\nPlease confirm your reservation:\n" + assistant.ConfirmationEnd,
		Buttons: []models.Button{
			{Value: "confirm", Display: "✅ Confirm"},
			{Value: "cancel", Display: "❌ Cancel"},
		},
	}
	got := renderPlainReply(resp)
	if strings.Contains(got, assistant.ConfirmationStart) || strings.Contains(got, assistant.ConfirmationEnd) {
		t.Errorf("markers leaked into plain text: %q", got)
	}
	if !strings.Contains(got, "1. ✅ Confirm") || !strings.Contains(got, "2. ❌ Cancel") {
		t.Errorf("buttons not rendered: %q", got)
	}

	plain := &models.ChatResponse{Text: "What date would you like to book?"}
	if got := renderPlainReply(plain); got != plain.Text {
		t.Errorf("plain text altered: %q", got)
	}
}
