// Package dates resolves natural-language date phrases ("next Monday",
// "tomorrow", "in 3 days") against a reference time, and strict fixed-format
// date strings. Resolution is deterministic: the first matching rule wins and
// the rules are mutually exclusive by construction.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type weekdayName struct {
	name string
	day  time.Weekday
}

var weekdayNames = []weekdayName{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
	{"lunes", time.Monday},
	{"martes", time.Tuesday},
	{"miércoles", time.Wednesday},
	{"miercoles", time.Wednesday},
	{"jueves", time.Thursday},
	{"viernes", time.Friday},
	{"sábado", time.Saturday},
	{"sabado", time.Saturday},
	{"domingo", time.Sunday},
}

var nextQualifiers = []string{
	"next", "coming", "following",
	"que viene", "próxim", "proxim", "siguiente",
}

var inDaysPattern = regexp.MustCompile(`(?:in|en)\s+(\d+)\s+(?:days?|días?|dias?)`)

// Resolve converts a relative date phrase into an absolute date (midnight in
// now's location). Returns false when no rule matches; it never defaults to
// today.
func Resolve(phrase string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(phrase)
	today := midnight(now)

	switch {
	case strings.Contains(lower, "today") || strings.Contains(lower, "hoy"):
		return today, true
	case containsTomorrow(lower) && !containsDayAfterTomorrow(lower):
		return today.AddDate(0, 0, 1), true
	case containsDayAfterTomorrow(lower):
		return today.AddDate(0, 0, 2), true
	}

	for _, wd := range weekdayNames {
		if !strings.Contains(lower, wd.name) {
			continue
		}
		days := int(wd.day-now.Weekday()+7) % 7
		if hasNextQualifier(lower) {
			// "next Monday" always lands in the following week.
			if days == 0 {
				days = 7
			} else {
				days += 7
			}
		} else if days == 0 {
			// "on Monday" said on a Monday means the one a week out.
			days = 7
		}
		return today.AddDate(0, 0, days), true
	}

	if m := inDaysPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return today.AddDate(0, 0, n), true
		}
	}

	return time.Time{}, false
}

func containsTomorrow(lower string) bool {
	return strings.Contains(lower, "tomorrow") || strings.Contains(lower, "mañana")
}

func containsDayAfterTomorrow(lower string) bool {
	return strings.Contains(lower, "day after tomorrow") || strings.Contains(lower, "pasado mañana")
}

func hasNextQualifier(lower string) bool {
	for _, q := range nextQualifiers {
		if strings.Contains(lower, q) {
			return true
		}
	}
	return false
}

var fixedFormats = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

// ParseFixed parses a strict fixed-format date: DD/MM/YYYY, DD-MM-YYYY or
// YYYY-MM-DD.
func ParseFixed(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range fixedFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// FormatSlot renders a date the way it is stored in the date slot.
func FormatSlot(d time.Time) string {
	return d.Format("02/01/2006")
}

// Confirmation renders a resolved date for echoing back to the user:
// "Monday 28 July 2025".
func Confirmation(d time.Time) string {
	return fmt.Sprintf("%s %d %s %d", d.Weekday(), d.Day(), d.Month(), d.Year())
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
