// File: services/assistant/prompts.go
package assistant

import (
	"fmt"
	"strings"
	"time"

	"appointmint/models"
)

// Sentinel markers wrapping a confirmation prompt so plain-text transports
// can strip them and rich transports can attach buttons.
const (
	ConfirmationStart = "[CONFIRMATION_NEEDED]"
	ConfirmationEnd   = "[END_CONFIRMATION]"
)

// Affirmative and negative tokens accepted at the final confirmation step.
var (
	affirmativeTokens = map[string]bool{
		"confirm": true, "yes": true, "yep": true, "yeah": true, "y": true,
		"sure": true, "ok": true, "okay": true, "correct": true, "right": true,
		"confirmed": true, "book it": true, "go ahead": true,
	}
	negativeTokens = map[string]bool{
		"cancel": true, "no": true, "nope": true, "n": true, "stop": true,
		"nevermind": true, "never mind": true, "forget it": true, "wrong": true,
	}
)

func isAffirmative(text string) bool {
	return affirmativeTokens[strings.ToLower(strings.TrimSpace(text))]
}

func isNegative(text string) bool {
	return negativeTokens[strings.ToLower(strings.TrimSpace(text))]
}

// specialRequestVocab maps quick-reply special request values to stored text.
var specialRequestVocab = map[string]string{
	"none":        "",
	"window":      "Window seat",
	"quiet":       "Quiet area",
	"birthday":    "Birthday celebration",
	"anniversary": "Anniversary celebration",
}

// dateButtons offers the next seven days.
func dateButtons(ref time.Time) []models.Button {
	buttons := make([]models.Button, 0, 7)
	for i := 0; i < 7; i++ {
		d := ref.AddDate(0, 0, i)
		display := d.Format("Mon, Jan 2")
		switch i {
		case 0:
			display = "Today"
		case 1:
			display = "Tomorrow"
		}
		buttons = append(buttons, models.Button{
			Value:   d.Format("2006-01-02"),
			Display: display,
		})
	}
	return buttons
}

// timeButtons offers typical dinner service slots.
func timeButtons() []models.Button {
	slots := []string{"12:00", "13:00", "17:30", "18:00", "19:00", "20:00", "21:00"}
	buttons := make([]models.Button, 0, len(slots))
	for _, s := range slots {
		buttons = append(buttons, models.Button{Value: s, Display: FormatTime12h(s)})
	}
	return buttons
}

// guestButtons offers 1-8 plus the large-party escape hatch.
func guestButtons() []models.Button {
	buttons := make([]models.Button, 0, 9)
	for i := 1; i <= 8; i++ {
		label := fmt.Sprintf("%d guests", i)
		if i == 1 {
			label = "1 guest"
		}
		buttons = append(buttons, models.Button{Value: fmt.Sprintf("%d", i), Display: label})
	}
	buttons = append(buttons, models.Button{Value: "9+", Display: "9+ guests (special request)"})
	return buttons
}

func confirmButtons() []models.Button {
	return []models.Button{
		{Value: "confirm", Display: "✅ Confirm"},
		{Value: "cancel", Display: "❌ Cancel"},
	}
}

func specialRequestButtons() []models.Button {
	return []models.Button{
		{Value: "none", Display: "No special requests"},
		{Value: "window", Display: "Window seat"},
		{Value: "quiet", Display: "Quiet area"},
		{Value: "birthday", Display: "Birthday"},
		{Value: "anniversary", Display: "Anniversary"},
	}
}

// confirmationSummary renders the final human-readable summary wrapped in
// sentinel markers.
func confirmationSummary(rec *models.BookingRecord) string {
	var sb strings.Builder
	sb.WriteString(ConfirmationStart)
	sb.WriteString("\nPlease confirm your reservation:\n\n")
	sb.WriteString(fmt.Sprintf("📅 Date: %s\n", FormatDateDisplay(rec.Date)))
	sb.WriteString(fmt.Sprintf("🕐 Time: %s\n", FormatTime12h(rec.Time)))
	sb.WriteString(fmt.Sprintf("👥 Guests: %d\n", rec.PartySize))
	sb.WriteString(fmt.Sprintf("👤 Name: %s\n", rec.CustomerName))
	sb.WriteString(fmt.Sprintf("📱 Phone: %s", rec.CustomerPhone))
	if rec.SpecialRequests != "" {
		sb.WriteString(fmt.Sprintf("\n📝 Special Requests: %s", rec.SpecialRequests))
	}
	sb.WriteString("\n")
	sb.WriteString(ConfirmationEnd)
	return sb.String()
}

// confirmedMessage is shown once the reservation is committed.
func confirmedMessage(res *models.Reservation, restaurantName string) string {
	special := ""
	if res.SpecialRequests != "" {
		special = fmt.Sprintf("\n📝 Special Requests: %s", res.SpecialRequests)
	}
	return fmt.Sprintf(`✅ Reservation Confirmed!

📅 Date: %s
🕐 Time: %s
👥 Guests: %d
👤 Name: %s
📱 Phone: %s%s

Thank you for your reservation! We look forward to welcoming you at %s.`,
		FormatDateDisplay(res.Date), FormatTime12h(res.Time), res.PartySize,
		res.CustomerName, res.CustomerPhone, special, restaurantName)
}

// handoverMessage acknowledges a large-party request routed to staff.
func handoverMessage(rec *models.BookingRecord, restaurantPhone string) string {
	contact := ""
	if restaurantPhone != "" {
		contact = fmt.Sprintf(" You can also reach us directly at %s.", restaurantPhone)
	}
	name := rec.CustomerName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Thank you, %s! Your request for a party of %d has been passed to our staff. "+
		"We will contact you at %s within 24 hours to confirm availability and finalize your booking.%s",
		name, rec.PartySize, rec.CustomerPhone, contact)
}

// StripConfirmationMarkers removes the sentinel block delimiters for
// plain-text channels.
func StripConfirmationMarkers(text string) string {
	text = strings.ReplaceAll(text, ConfirmationStart, "")
	text = strings.ReplaceAll(text, ConfirmationEnd, "")
	return strings.TrimSpace(text)
}
