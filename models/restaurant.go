package models

import "time"

// ChatwootSettings holds per-restaurant credentials for relaying replies
// back through the Chatwoot conversation API.
type ChatwootSettings struct {
	BaseURL   string `bson:"base_url" json:"base_url,omitempty"`
	AccountID string `bson:"account_id" json:"account_id,omitempty"`
	APIToken  string `bson:"api_token" json:"-"`
	InboxID   string `bson:"inbox_id" json:"inbox_id,omitempty"`
}

// WidgetSettings drives the embeddable chat widget appearance.
type WidgetSettings struct {
	PrimaryColor   string `bson:"primary_color" json:"primary_color,omitempty"`
	WelcomeMessage string `bson:"welcome_message" json:"welcome_message,omitempty"`
	Position       string `bson:"position" json:"position,omitempty"`
	Enabled        bool   `bson:"enabled" json:"enabled"`
}

// Restaurant is a tenant's bookable venue.
type Restaurant struct {
	ID            string           `bson:"id" json:"id"`
	TenantID      string           `bson:"tenant_id" json:"tenant_id"`
	Name          string           `bson:"name" json:"name"`
	Phone         string           `bson:"phone" json:"phone,omitempty"`
	Address       string           `bson:"address" json:"address,omitempty"`
	Timezone      string           `bson:"timezone" json:"timezone"` // IANA name, e.g. "Europe/Berlin"
	OpeningHours  string           `bson:"opening_hours" json:"opening_hours,omitempty"`
	KnowledgeBase string           `bson:"knowledge_base" json:"knowledge_base,omitempty"`
	Widget        WidgetSettings   `bson:"widget" json:"widget"`
	Chatwoot      ChatwootSettings `bson:"chatwoot" json:"chatwoot,omitempty"`
	WebhookToken  string           `bson:"webhook_token" json:"-"`
	StaffFCMToken string           `bson:"staff_fcm_token" json:"-"`
	Active        bool             `bson:"active" json:"active"`
	CreatedAt     time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `bson:"updated_at" json:"updated_at"`
}

// Tenant is the subscribing account a restaurant belongs to. Billing-provider
// identifiers are carried as opaque strings only.
type Tenant struct {
	ID                string    `bson:"id" json:"id"`
	Name              string    `bson:"name" json:"name"`
	Email             string    `bson:"email" json:"email"`
	Plan              string    `bson:"plan" json:"plan"` // "trial", "starter", "pro"
	BillingCustomerID string    `bson:"billing_customer_id" json:"-"`
	TrialStartedAt    time.Time `bson:"trial_started_at" json:"trial_started_at,omitempty"`
	TrialBookingCount int       `bson:"trial_booking_count" json:"trial_booking_count"`
	TrialBookingLimit int       `bson:"trial_booking_limit" json:"trial_booking_limit"`
	TrialDays         int       `bson:"trial_days" json:"trial_days"`
	Active            bool      `bson:"active" json:"active"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}

// OnTrial reports whether the tenant is still on the trial plan.
func (t *Tenant) OnTrial() bool {
	return t.Plan == "" || t.Plan == "trial"
}

// CanMakeBooking gates new reservations against trial limits.
func (t *Tenant) CanMakeBooking(now time.Time) bool {
	if !t.Active {
		return false
	}
	if !t.OnTrial() {
		return true
	}
	if t.TrialBookingLimit > 0 && t.TrialBookingCount >= t.TrialBookingLimit {
		return false
	}
	if t.TrialDays > 0 && !t.TrialStartedAt.IsZero() {
		if now.After(t.TrialStartedAt.AddDate(0, 0, t.TrialDays)) {
			return false
		}
	}
	return true
}
