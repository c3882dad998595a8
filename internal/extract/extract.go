// Package extract contains the pure field extractors that scan a single
// utterance for one type of booking data. "Not found" is a normal result,
// never an error.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// Email returns the first email-shaped token in the utterance. No validation
// beyond syntax.
func Email(utterance string) (string, bool) {
	match := emailPattern.FindString(utterance)
	if match == "" {
		return "", false
	}
	return match, true
}

// DefaultBlockedNameTokens are task verbs and request nouns that disqualify a
// candidate name span. Kept as data so the denylist can be tuned without
// touching the state machine.
var DefaultBlockedNameTokens = []string{
	"book", "appointment", "schedule", "want", "need", "info", "information",
	"price", "test", "drive", "looking", "interested",
	"quiero", "necesito", "busco", "cita", "agendar", "prueba", "información",
}

var selfIntroPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy name is\s+([a-zA-Záéíóúñü][a-zA-Záéíóúñü\s]*?)(?:\s+and\b|[.,!]|$)`),
	regexp.MustCompile(`(?i)\bi am\s+([a-zA-Záéíóúñü][a-zA-Záéíóúñü\s]*?)(?:\s+and\b|[.,!]|$)`),
	regexp.MustCompile(`(?i)\bi'm\s+([a-zA-Záéíóúñü][a-zA-Záéíóúñü\s]*?)(?:\s+and\b|[.,!]|$)`),
	regexp.MustCompile(`(?i)\bme llamo\s+([a-zA-Záéíóúñü][a-zA-Záéíóúñü\s]*?)(?:\s+y\b|[.,!]|$)`),
	regexp.MustCompile(`(?i)\bmi nombre es\s+([a-zA-Záéíóúñü][a-zA-Záéíóúñü\s]*?)(?:\s+y\b|[.,!]|$)`),
	regexp.MustCompile(`(?i)\bsoy\s+([a-zA-Záéíóúñü][a-zA-Záéíóúñü\s]*?)(?:\s+y\b|[.,!]|$)`),
}

// NameExtractor pulls a person name out of an utterance. The blocked-token
// denylist rejects spans like "I want to book an appointment".
type NameExtractor struct {
	blocked []string
}

// NewNameExtractor creates an extractor; a nil list uses the default denylist.
func NewNameExtractor(blocked []string) NameExtractor {
	if blocked == nil {
		blocked = DefaultBlockedNameTokens
	}
	return NameExtractor{blocked: blocked}
}

// Extract attempts name extraction. prompted indicates the conversation is
// explicitly awaiting a name; only then is a bare utterance accepted as a
// name. Outside that, a self-introduction marker phrase is required.
func (e NameExtractor) Extract(utterance string, prompted bool) (string, bool) {
	for _, p := range selfIntroPatterns {
		m := p.FindStringSubmatch(utterance)
		if m == nil {
			continue
		}
		if name, ok := e.accept(m[1]); ok {
			return name, true
		}
	}
	if prompted {
		if name, ok := e.accept(utterance); ok {
			return name, true
		}
	}
	return "", false
}

func (e NameExtractor) accept(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if len(candidate) < 3 {
		return "", false
	}
	if strings.ContainsAny(candidate, "0123456789") {
		return "", false
	}
	lower := strings.ToLower(candidate)
	for _, token := range e.blocked {
		if strings.Contains(lower, token) {
			return "", false
		}
	}
	return capitalizeWords(candidate), true
}

func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Time patterns tried in order; the first match wins and extraction stops.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})`),                    // 18:00, 2:30
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`),              // 6 pm, 9am
	regexp.MustCompile(`(?i)\b(?:at|las)\s+(\d{1,2})\b`),           // at 6, las 6
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*h\b`),                    // 18h
}

// Time finds a time-of-day expression and normalizes it to 24-hour HH:MM.
func Time(utterance string) (string, bool) {
	lower := strings.ToLower(utterance)
	for _, p := range timePatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		hour, err := strconv.Atoi(m[1])
		if err != nil || hour > 23 {
			continue
		}
		minute := 0
		meridiem := ""
		if len(m) > 2 {
			switch m[2] {
			case "am", "pm":
				meridiem = m[2]
			default:
				if m[2] != "" {
					minute, err = strconv.Atoi(m[2])
					if err != nil || minute > 59 {
						continue
					}
				}
			}
		}
		if meridiem == "" {
			// Pattern matched a bare hour; look for a trailing am/pm nearby.
			if strings.Contains(lower, "pm") {
				meridiem = "pm"
			} else if strings.Contains(lower, "am") {
				meridiem = "am"
			}
		}
		switch meridiem {
		case "pm":
			if hour != 12 && hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}
	return "", false
}

// Vehicle matches the utterance against the catalog model names,
// case-insensitively; the first catalog model mentioned wins.
func Vehicle(utterance string, models []string) (string, bool) {
	lower := strings.ToLower(utterance)
	for _, model := range models {
		if strings.Contains(lower, strings.ToLower(model)) {
			return model, true
		}
	}
	return "", false
}
