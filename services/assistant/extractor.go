// File: services/assistant/extractor.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"appointmint/models"

	"go.uber.org/zap"
)

// SlotExtractor turns one user utterance (plus which field was just asked
// for) into structured reservation fields.
type SlotExtractor interface {
	Extract(ctx context.Context, utterance, lastQuestion string, ref time.Time) models.ExtractedFields
}

// numberWords maps spelled-out counts to integers, including common voice
// transcription confusions ("sick" for six, "ate" for eight).
var numberWords = map[string]int{
	"one": 1, "won": 1,
	"two": 2, "to": 2, "too": 2,
	"three": 3, "tree": 3, "free": 3,
	"four": 4, "for": 4, "fore": 4,
	"five": 5,
	"six":  6, "sick": 6,
	"seven": 7,
	"eight": 8, "ate": 8,
	"nine":   9,
	"ten":    10,
	"eleven": 11,
	"twelve": 12,
}

var (
	bareIntRe  = regexp.MustCompile(`^(\d{1,2})\s*(?:guests?|people|persons?)?$`)
	phoneRe    = regexp.MustCompile(`^[\d\s\+\-\(\)\.]{6,}$`)
	digitRunRe = regexp.MustCompile(`\d`)
)

// LooksLikePhone reports whether a string is digit-dominated or
// phone-formatted. Transport "names" that look like this are treated as
// phone numbers, never booked under as a customer name.
func LooksLikePhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if phoneRe.MatchString(s) {
		return true
	}
	digits := len(digitRunRe.FindAllString(s, -1))
	return digits*2 > len(s)
}

// ParsePartySize reads a guest count from a short answer: a bare integer,
// a spelled-out number, or the "9+" large-party button value.
func ParsePartySize(text string) int {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "9+" || strings.HasPrefix(t, "9+") {
		return 9
	}
	if m := bareIntRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 1 && n <= 50 {
			return n
		}
	}
	// Strip a trailing "guests"/"people" before the word lookup.
	for _, suffix := range []string{" guests", " guest", " people", " persons", " person"} {
		t = strings.TrimSuffix(t, suffix)
	}
	if n, ok := numberWords[t]; ok {
		return n
	}
	return 0
}

// GeminiSlotExtractor implements SlotExtractor with deterministic fast paths
// and a Gemini call for free-form utterances.
type GeminiSlotExtractor struct {
	NLU    NLUClient
	Logger *zap.Logger
}

// Extract never fails: when the external call errors or returns unparseable
// output it degrades to keyword heuristics with empty slots, and the state
// machine re-prompts for whatever is still missing.
func (e *GeminiSlotExtractor) Extract(ctx context.Context, utterance, lastQuestion string, ref time.Time) models.ExtractedFields {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return models.ExtractedFields{}
	}

	// Direct answers to the question just asked skip the external call.
	if fields, ok := e.fastPath(text, lastQuestion, ref); ok {
		return fields
	}

	fields, err := e.generalPath(ctx, text, ref)
	if err != nil {
		e.Logger.Warn("slot extraction fell back to heuristics",
			zap.String("last_question", lastQuestion), zap.Error(err))
		return heuristicFields(text)
	}
	return fields
}

func (e *GeminiSlotExtractor) fastPath(text, lastQuestion string, ref time.Time) (models.ExtractedFields, bool) {
	switch lastQuestion {
	case "guests":
		if n := ParsePartySize(text); n > 0 {
			return models.ExtractedFields{PartySize: n, HasBookingIntent: true}, true
		}
	case "date":
		if d := ParseRelativeDate(text, ref); d != "" {
			return models.ExtractedFields{Date: d, HasBookingIntent: true}, true
		}
	case "time":
		if t := ParseClockTime(text); t != "" {
			return models.ExtractedFields{Time: t, HasBookingIntent: true}, true
		}
	case "name":
		if !LooksLikePhone(text) && len(text) <= 60 && !strings.ContainsAny(text, "?!") {
			return models.ExtractedFields{Name: text, HasBookingIntent: true}, true
		}
		if LooksLikePhone(text) {
			return models.ExtractedFields{Phone: text, HasBookingIntent: true}, true
		}
	case "phone":
		if LooksLikePhone(text) {
			return models.ExtractedFields{Phone: text, HasBookingIntent: true}, true
		}
	}

	// Button values arrive through the same path as typed text. A literal
	// date or time parses regardless of which question is outstanding.
	if d := ParseRelativeDate(text, ref); d != "" && lastQuestion != "" {
		return models.ExtractedFields{Date: d, HasBookingIntent: true}, true
	}
	if t := ParseClockTime(text); t != "" && lastQuestion != "" {
		return models.ExtractedFields{Time: t, HasBookingIntent: true}, true
	}

	return models.ExtractedFields{}, false
}

const extractionPromptTemplate = `You extract reservation details from a restaurant guest's message.
Today's date is %s (%s). The restaurant's timezone is %s.

Guest message: %q

Reply with ONLY a JSON object, no prose, with these keys:
{"date": "YYYY-MM-DD or empty string", "time": "HH:MM 24-hour or empty string", "party_size": 0, "name": "", "special_requests": "", "has_booking_intent": false, "is_question": false}

Rules:
- Resolve relative dates ("tomorrow", "next friday") against today's date above; weekday names mean the nearest future occurrence.
- Convert 12-hour times to 24-hour. "noon" is 12:00, "evening" is 18:00, "dinner" is 19:00.
- party_size is the number of guests, 0 if not mentioned.
- has_booking_intent is true when the guest wants to book, reserve, or asks about a table.
- is_question is true when the message asks about the restaurant rather than supplying booking details.`

func (e *GeminiSlotExtractor) generalPath(ctx context.Context, text string, ref time.Time) (models.ExtractedFields, error) {
	prompt := fmt.Sprintf(extractionPromptTemplate,
		ref.Format("2006-01-02"), ref.Format("Monday"), ref.Location().String(), text)

	raw, err := e.NLU.GenerateContent(ctx, prompt)
	if err != nil {
		return models.ExtractedFields{}, fmt.Errorf("nlu call: %w", err)
	}

	var fields models.ExtractedFields
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &fields); err != nil {
		return models.ExtractedFields{}, fmt.Errorf("unparseable nlu output: %w", err)
	}

	// Normalize anything the model left in relative or 12-hour form.
	if fields.Date != "" {
		if _, perr := time.Parse("2006-01-02", fields.Date); perr != nil {
			fields.Date = ParseRelativeDate(fields.Date, ref)
		}
	}
	if fields.Time != "" {
		if _, perr := time.Parse("15:04", fields.Time); perr != nil {
			fields.Time = ParseClockTime(fields.Time)
		}
	}
	if fields.PartySize < 0 || fields.PartySize > 50 {
		fields.PartySize = 0
	}
	if LooksLikePhone(fields.Name) {
		fields.Phone = fields.Name
		fields.Name = ""
	}
	return fields, nil
}

// stripJSONFences peels a markdown code fence off a model reply.
func stripJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	// Tolerate prose around the object.
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return strings.TrimSpace(s)
}

// heuristicFields is the extraction failure policy: keyword intent and
// question detection only, every slot left empty.
func heuristicFields(text string) models.ExtractedFields {
	lower := strings.ToLower(text)
	var fields models.ExtractedFields
	for _, kw := range []string{"book", "reserv", "table", "schedule"} {
		if strings.Contains(lower, kw) {
			fields.HasBookingIntent = true
			break
		}
	}
	if strings.Contains(lower, "?") {
		fields.IsQuestion = true
	} else {
		for _, q := range []string{"what ", "when ", "where ", "how ", "do you", "are you", "can i"} {
			if strings.HasPrefix(lower, q) {
				fields.IsQuestion = true
				break
			}
		}
	}
	return fields
}
