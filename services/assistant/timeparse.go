// File: services/assistant/timeparse.go
package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// weekdays maps spoken weekday names (and common abbreviations) to Go weekdays.
var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// timeExpressions maps named meal/day periods to a clock time.
var timeExpressions = map[string][2]int{
	"noon":        {12, 0},
	"midday":      {12, 0},
	"midnight":    {0, 0},
	"morning":     {9, 0},
	"afternoon":   {14, 0},
	"evening":     {18, 0},
	"night":       {20, 0},
	"lunch":       {12, 0},
	"lunch time":  {12, 0},
	"lunchtime":   {12, 0},
	"dinner":      {19, 0},
	"dinner time": {19, 0},
	"dinnertime":  {19, 0},
	"breakfast":   {8, 0},
	"brunch":      {11, 0},
}

var (
	inDaysRe      = regexp.MustCompile(`^in\s+(\d+)\s+days?$`)
	thisWeekdayRe = regexp.MustCompile(`^this\s+(\w+)$`)
	nextWeekdayRe = regexp.MustCompile(`^next\s+(\w+)$`)

	time24Re      = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	time12MinRe   = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm|a\.m\.|p\.m\.)$`)
	time12Re      = regexp.MustCompile(`^(\d{1,2})\s*(am|pm|a\.m\.|p\.m\.)$`)
	bareHourRe    = regexp.MustCompile(`^(\d{1,2})$`)
	oclockRe      = regexp.MustCompile(`^(\d{1,2})\s*o'?clock\s*(am|pm)?$`)
	halfPastRe    = regexp.MustCompile(`^half\s+past\s+(\d{1,2})\s*(am|pm)?$`)
	quarterPastRe = regexp.MustCompile(`^quarter\s+past\s+(\d{1,2})\s*(am|pm)?$`)
	quarterToRe   = regexp.MustCompile(`^quarter\s+to\s+(\d{1,2})\s*(am|pm)?$`)
)

// dateLayouts are tried in order for literal date strings.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	"02/01/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2",
	"Jan 2",
}

// nextWeekday returns the nearest strictly-future occurrence of the target
// weekday relative to ref.
func nextWeekday(ref time.Time, target time.Weekday) time.Time {
	ahead := int(target) - int(ref.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return ref.AddDate(0, 0, ahead)
}

// ParseRelativeDate parses relative date expressions like "today",
// "tomorrow", "next monday" or literal dates, against a reference day.
// Returns "" when the expression is not a date.
func ParseRelativeDate(expression string, ref time.Time) string {
	expr := strings.ToLower(strings.TrimSpace(expression))
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	switch expr {
	case "today", "tonight", "this evening":
		return day.Format("2006-01-02")
	case "tomorrow", "tmrw", "tmr":
		return day.AddDate(0, 0, 1).Format("2006-01-02")
	case "day after tomorrow", "overmorrow":
		return day.AddDate(0, 0, 2).Format("2006-01-02")
	case "yesterday":
		return day.AddDate(0, 0, -1).Format("2006-01-02")
	}

	if m := inDaysRe.FindStringSubmatch(expr); m != nil {
		n, _ := strconv.Atoi(m[1])
		return day.AddDate(0, 0, n).Format("2006-01-02")
	}

	if m := thisWeekdayRe.FindStringSubmatch(expr); m != nil {
		if wd, ok := weekdays[m[1]]; ok {
			return nextWeekday(day, wd).Format("2006-01-02")
		}
	}

	if m := nextWeekdayRe.FindStringSubmatch(expr); m != nil {
		if wd, ok := weekdays[m[1]]; ok {
			return nextWeekday(day, wd).AddDate(0, 0, 7).Format("2006-01-02")
		}
	}

	// A bare weekday name means the next occurrence.
	if wd, ok := weekdays[expr]; ok {
		return nextWeekday(day, wd).Format("2006-01-02")
	}

	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, titleCaseMonths(expr), ref.Location())
		if err != nil {
			continue
		}
		// Year-less layouts parse as year 0; assume the current year, rolling
		// past dates into next year.
		if parsed.Year() == 0 {
			parsed = time.Date(day.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, ref.Location())
			if parsed.Before(day) {
				parsed = parsed.AddDate(1, 0, 0)
			}
		}
		return parsed.Format("2006-01-02")
	}

	return ""
}

// titleCaseMonths uppercases the first letter of each word so lowercased
// month names match Go's reference layouts.
func titleCaseMonths(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// clock converts a 12-hour reading plus optional am/pm period to 24h. A
// missing period on an hour below 12 assumes PM, which fits dining hours.
func clock(hour int, period string) int {
	period = strings.ReplaceAll(period, ".", "")
	switch {
	case period == "pm" && hour != 12:
		return hour + 12
	case period == "am" && hour == 12:
		return 0
	case period == "" && hour < 12:
		return hour + 12
	}
	return hour
}

// ParseClockTime parses a time-of-day expression to "HH:MM" (24h). Returns
// "" when the expression is not a time.
func ParseClockTime(expression string) string {
	expr := strings.ToLower(strings.TrimSpace(expression))

	if hm, ok := timeExpressions[expr]; ok {
		return fmt.Sprintf("%02d:%02d", hm[0], hm[1])
	}

	if m := time24Re.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}

	if m := time12MinRe.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour >= 1 && hour <= 12 && minute <= 59 {
			h := clockStrict(hour, m[3])
			return fmt.Sprintf("%02d:%02d", h, minute)
		}
	}

	if m := time12Re.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			return fmt.Sprintf("%02d:00", clockStrict(hour, m[2]))
		}
	}

	if m := bareHourRe.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour <= 23 {
			// Bare 1-9 in a restaurant context reads as evening.
			if hour >= 1 && hour <= 9 {
				hour += 12
			}
			return fmt.Sprintf("%02d:00", hour)
		}
	}

	if m := oclockRe.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			return fmt.Sprintf("%02d:00", clock(hour, m[2]))
		}
	}

	if m := halfPastRe.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			return fmt.Sprintf("%02d:30", clock(hour, m[2]))
		}
	}

	if m := quarterPastRe.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			return fmt.Sprintf("%02d:15", clock(hour, m[2]))
		}
	}

	if m := quarterToRe.FindStringSubmatch(expr); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 1 && hour <= 12 {
			h := clock(hour, m[2]) - 1
			if h < 0 {
				h = 23
			}
			return fmt.Sprintf("%02d:45", h)
		}
	}

	return ""
}

// clockStrict is clock without the restaurant PM assumption: an explicit
// am/pm period is always present.
func clockStrict(hour int, period string) int {
	period = strings.ReplaceAll(period, ".", "")
	if period == "pm" && hour != 12 {
		return hour + 12
	}
	if period == "am" && hour == 12 {
		return 0
	}
	return hour
}

// FormatTime12h renders "HH:MM" (24h) in 12-hour guest-facing form.
func FormatTime12h(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	hour, minute := t.Hour(), t.Minute()
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	if minute == 0 {
		return fmt.Sprintf("%d %s", display, period)
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

// FormatDateDisplay renders "YYYY-MM-DD" as "Monday, January 2, 2006".
func FormatDateDisplay(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2, 2006")
}
