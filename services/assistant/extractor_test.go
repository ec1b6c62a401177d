package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeNLU returns a canned reply or error, recording whether it was called.
type fakeNLU struct {
	reply  string
	err    error
	called bool
}

func (f *fakeNLU) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.called = true
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestExtractor(nlu *fakeNLU) *GeminiSlotExtractor {
	return &GeminiSlotExtractor{NLU: nlu, Logger: zap.NewNop()}
}

func TestExtractFastPathSkipsNLU(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	nlu := &fakeNLU{}
	e := newTestExtractor(nlu)

	f := e.Extract(context.Background(), "4", "guests", now)
	if f.PartySize != 4 || !f.HasBookingIntent {
		t.Errorf("guests fast path: got %+v", f)
	}

	f = e.Extract(context.Background(), "9+", "guests", now)
	if f.PartySize != 9 {
		t.Errorf("large party button: got %+v", f)
	}

	f = e.Extract(context.Background(), "tomorrow", "date", now)
	if f.Date != "2026-03-05" {
		t.Errorf("date fast path: got %+v", f)
	}

	f = e.Extract(context.Background(), "7:30pm", "time", now)
	if f.Time != "19:30" {
		t.Errorf("time fast path: got %+v", f)
	}

	f = e.Extract(context.Background(), "Maria Schmidt", "name", now)
	if f.Name != "Maria Schmidt" {
		t.Errorf("name fast path: got %+v", f)
	}

	// A phone number given where a name was asked lands in the phone slot.
	f = e.Extract(context.Background(), "+49 170 1234567", "name", now)
	if f.Phone == "" || f.Name != "" {
		t.Errorf("phone-for-name guard: got %+v", f)
	}

	// Button values parse even when a different question is outstanding.
	f = e.Extract(context.Background(), "2026-03-10", "time", now)
	if f.Date != "2026-03-10" {
		t.Errorf("literal date during time question: got %+v", f)
	}

	if nlu.called {
		t.Error("fast paths must not call the NLU")
	}
}

func TestExtractGeneralPath(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	nlu := &fakeNLU{reply: "```json\n{\"date\": \"2026-03-06\", \"time\": \"7pm\", \"party_size\": 4, \"has_booking_intent\": true}\n```"}
	e := newTestExtractor(nlu)

	f := e.Extract(context.Background(), "table for 4 on friday at 7", "", now)
	if !nlu.called {
		t.Fatal("expected NLU call for free-form utterance")
	}
	if f.Date != "2026-03-06" {
		t.Errorf("date = %q", f.Date)
	}
	// Non-ISO model output is re-parsed locally.
	if f.Time != "19:00" {
		t.Errorf("time = %q", f.Time)
	}
	if f.PartySize != 4 || !f.HasBookingIntent {
		t.Errorf("fields = %+v", f)
	}
}

func TestExtractNormalizesPhoneLookingName(t *testing.T) {
	now := time.Now()
	nlu := &fakeNLU{reply: `{"name": "0170 1234567", "has_booking_intent": true}`}
	e := newTestExtractor(nlu)

	f := e.Extract(context.Background(), "my number is 0170 1234567", "", now)
	if f.Name != "" || f.Phone != "0170 1234567" {
		t.Errorf("got %+v", f)
	}
}

func TestExtractFallsBackOnNLUError(t *testing.T) {
	now := time.Now()
	nlu := &fakeNLU{err: errors.New("quota exceeded")}
	e := newTestExtractor(nlu)

	f := e.Extract(context.Background(), "I'd like to book a table", "", now)
	if !f.HasBookingIntent {
		t.Errorf("heuristic intent missing: %+v", f)
	}
	if f.Date != "" || f.Time != "" || f.PartySize != 0 {
		t.Errorf("fallback must not invent slots: %+v", f)
	}

	f = e.Extract(context.Background(), "do you have parking?", "", now)
	if !f.IsQuestion {
		t.Errorf("heuristic question missing: %+v", f)
	}
}

func TestExtractFallsBackOnGarbageOutput(t *testing.T) {
	nlu := &fakeNLU{reply: "I am sorry, I cannot help with that."}
	e := newTestExtractor(nlu)

	f := e.Extract(context.Background(), "reserve something", "", time.Now())
	if !f.HasBookingIntent {
		t.Errorf("got %+v", f)
	}
}

func TestLooksLikePhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+49 170 1234567", true},
		{"017012345", true},
		{"(030) 555-1234", true},
		{"Maria Schmidt", false},
		{"Maria 2", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikePhone(tt.in); got != tt.want {
			t.Errorf("LooksLikePhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePartySize(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"4", 4},
		{"4 guests", 4},
		{"four", 4},
		{"for", 4}, // voice transcription confusion
		{"ate", 8},
		{"two people", 2},
		{"9+", 9},
		{"9+ guests (special request)", 9},
		{"0", 0},
		{"fifty five", 0},
		{"hello", 0},
	}
	for _, tt := range tests {
		if got := ParsePartySize(tt.in); got != tt.want {
			t.Errorf("ParsePartySize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
