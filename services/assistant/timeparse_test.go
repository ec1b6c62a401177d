package assistant

import (
	"testing"
	"time"
)

// Wednesday, 2026-03-04.
var ref = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func TestParseRelativeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"today", "2026-03-04"},
		{"tonight", "2026-03-04"},
		{"Tomorrow", "2026-03-05"},
		{"tmrw", "2026-03-05"},
		{"day after tomorrow", "2026-03-06"},
		{"in 3 days", "2026-03-07"},
		{"friday", "2026-03-06"},
		{"fri", "2026-03-06"},
		{"wednesday", "2026-03-11"}, // same weekday means next week
		{"this saturday", "2026-03-07"},
		{"next friday", "2026-03-13"},
		{"next wednesday", "2026-03-18"},
		{"2026-03-20", "2026-03-20"},
		{"march 20, 2026", "2026-03-20"},
		{"20 March 2026", "2026-03-20"},
		{"march 20", "2026-03-20"},
		{"january 2", "2027-01-02"}, // already past, rolls to next year
		{"hello", ""},
		{"7pm", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ParseRelativeDate(tt.in, ref); got != tt.want {
			t.Errorf("ParseRelativeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"19:30", "19:30"},
		{"09:15", "09:15"},
		{"7pm", "19:00"},
		{"7 PM", "19:00"},
		{"7:30pm", "19:30"},
		{"7:30 p.m.", "19:30"},
		{"12pm", "12:00"},
		{"12am", "00:00"},
		{"11am", "11:00"},
		{"noon", "12:00"},
		{"evening", "18:00"},
		{"dinner", "19:00"},
		{"night", "20:00"},
		{"morning", "09:00"},
		{"afternoon", "14:00"},
		{"breakfast", "08:00"},
		{"brunch", "11:00"},
		{"7", "19:00"}, // bare small hour reads as evening
		{"9", "21:00"},
		{"10", "10:00"},
		{"14", "14:00"},
		{"7 o'clock", "19:00"},
		{"8 oclock pm", "20:00"},
		{"half past 7", "19:30"},
		{"half past 7 am", "07:30"},
		{"quarter past 6", "18:15"},
		{"quarter to 8", "19:45"},
		{"25:00", ""},
		{"friday", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ParseClockTime(tt.in); got != tt.want {
			t.Errorf("ParseClockTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTime12h(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"19:00", "7 PM"},
		{"19:30", "7:30 PM"},
		{"12:00", "12 PM"},
		{"00:15", "12:15 AM"},
		{"09:00", "9 AM"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := FormatTime12h(tt.in); got != tt.want {
			t.Errorf("FormatTime12h(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDateDisplay(t *testing.T) {
	if got := FormatDateDisplay("2026-03-06"); got != "Friday, March 6, 2026" {
		t.Errorf("FormatDateDisplay = %q", got)
	}
	if got := FormatDateDisplay("nonsense"); got != "nonsense" {
		t.Errorf("FormatDateDisplay passthrough = %q", got)
	}
}
