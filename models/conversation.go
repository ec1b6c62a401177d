package models

import (
	"strings"
	"time"
)

// DialogueState identifies where a conversation sits in the booking flow.
type DialogueState string

const (
	StateInitial                 DialogueState = "initial"
	StateCollecting              DialogueState = "collecting"
	StateAwaitingDate            DialogueState = "awaiting_date"
	StateAwaitingTime            DialogueState = "awaiting_time"
	StateAwaitingGuests          DialogueState = "awaiting_guests"
	StateAwaitingIdentityConfirm DialogueState = "awaiting_identity_confirm"
	StateAwaitingName            DialogueState = "awaiting_name"
	StateAwaitingPhone           DialogueState = "awaiting_phone"
	StateAwaitingSpecialRequests DialogueState = "awaiting_special_requests"
	StateAwaitingFinalConfirm    DialogueState = "awaiting_final_confirmation"
	StateCompleted               DialogueState = "completed"
	StateHandover                DialogueState = "handover"
)

// Phase buckets the fine-grained dialogue states for logging and channel
// rendering. The three slot prompts share the collecting phase.
func (s DialogueState) Phase() DialogueState {
	switch s {
	case StateAwaitingDate, StateAwaitingTime, StateAwaitingGuests:
		return StateCollecting
	}
	return s
}

// ExtractedFields is the result of running the slot extractor over one
// utterance. Pointer fields distinguish "absent" from zero values.
type ExtractedFields struct {
	Date             string `json:"date,omitempty"` // YYYY-MM-DD
	Time             string `json:"time,omitempty"` // HH:MM, 24h
	PartySize        int    `json:"party_size,omitempty"`
	Name             string `json:"name,omitempty"`
	Phone            string `json:"phone,omitempty"`
	SpecialRequests  string `json:"special_requests,omitempty"`
	HasBookingIntent bool   `json:"has_booking_intent"`
	IsQuestion       bool   `json:"is_question"`
}

// BookingRecord accumulates the slots collected over a conversation.
type BookingRecord struct {
	Date            string `json:"date,omitempty"` // YYYY-MM-DD
	Time            string `json:"time,omitempty"` // HH:MM, 24h
	PartySize       int    `json:"party_size,omitempty"`
	CustomerName    string `json:"customer_name,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
	HandoverFlag    bool   `json:"handover_flag,omitempty"`
	HandoverReason  string `json:"handover_reason,omitempty"`
}

// Merge folds newly extracted fields into the record. Set fields are only
// overwritten by an explicit new value, never cleared.
func (r *BookingRecord) Merge(f ExtractedFields) {
	if f.Date != "" {
		r.Date = f.Date
	}
	if f.Time != "" {
		r.Time = f.Time
	}
	if f.PartySize > 0 {
		r.PartySize = f.PartySize
	}
	if f.Name != "" {
		r.CustomerName = strings.TrimSpace(f.Name)
	}
	if f.Phone != "" {
		r.CustomerPhone = strings.TrimSpace(f.Phone)
	}
	if f.SpecialRequests != "" {
		r.SpecialRequests = f.SpecialRequests
	}
}

// Complete reports whether the three core slots are filled.
func (r *BookingRecord) Complete() bool {
	return r.Date != "" && r.Time != "" && r.PartySize > 0
}

// Reset clears every collected slot. Only used on explicit cancellation.
func (r *BookingRecord) Reset() {
	*r = BookingRecord{}
}

// ConversationState is the full per-conversation engine state persisted
// between turns.
type ConversationState struct {
	RestaurantID   string        `json:"restaurant_id"`
	ConversationID string        `json:"conversation_id"`
	Timezone       string        `json:"timezone,omitempty"`
	State          DialogueState `json:"state"`
	LastQuestion   string        `json:"last_question,omitempty"` // "date", "time", "guests", "name", "phone"
	SenderName     string        `json:"sender_name,omitempty"`
	SenderPhone    string        `json:"sender_phone,omitempty"`
	Channel        string        `json:"channel,omitempty"` // "widget", "chatwoot", "voice"
	Record         BookingRecord `json:"record"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Source names the transport channel for reservation records.
func (s *ConversationState) Source() string {
	if s.Channel == "" {
		return "widget"
	}
	return s.Channel
}

// Location resolves the restaurant timezone, falling back to UTC.
func (s *ConversationState) Location() *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}
