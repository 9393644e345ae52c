// Package temporal extracts absolute timestamps from natural-language
// Spanish time references ("a las 18:30", "mañana", weekday names).
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timeOfDayRe matches "a las HH", "a las HH:MM", "a la 1.30", "a las 18h".
var timeOfDayRe = regexp.MustCompile(`(?i)\ba\s+las?\s+(\d{1,2})(?:[:.h](\d{2}))?\s*(?:h(?:oras?)?)?\b`)

// weekdays maps Spanish weekday names (with and without accents) to Go
// weekdays. Ordered so lookups are deterministic when a text mentions
// more than one day.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"lunes", time.Monday},
	{"martes", time.Tuesday},
	{"miercoles", time.Wednesday},
	{"miércoles", time.Wednesday},
	{"jueves", time.Thursday},
	{"viernes", time.Friday},
	{"sabado", time.Saturday},
	{"sábado", time.Saturday},
	{"domingo", time.Sunday},
}

// ExtractFireTime parses a time-of-day reference out of text and
// resolves it to an absolute future timestamp relative to now.
// It returns false when the text carries no valid time reference.
//
// Day resolution: "pasado mañana" wins over "mañana", then weekday
// names (always a future occurrence, never today), and with no day
// keyword the time rolls to tomorrow once it has passed today.
func ExtractFireTime(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)

	m := timeOfDayRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	dayOffset := -1
	switch {
	case strings.Contains(lower, "pasado mañana") || strings.Contains(lower, "pasado manana"):
		dayOffset = 2
	case strings.Contains(lower, "mañana") || strings.Contains(lower, "manana"):
		dayOffset = 1
	default:
		for _, wd := range weekdays {
			if strings.Contains(lower, wd.name) {
				diff := (int(wd.day) - int(now.Weekday()) + 7) % 7
				if diff == 0 {
					diff = 7
				}
				dayOffset = diff
				break
			}
		}
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if dayOffset >= 0 {
		target = target.AddDate(0, 0, dayOffset)
	} else if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, true
}

var splitTimeRe = regexp.MustCompile(`\b(\d{1,2}) (\d{2})\b`)

// FixTimeColons restores "HH MM" to "HH:MM" when the classifier strips
// the colon out of a time inside an idea. Pairs outside the valid
// hour/minute ranges are left untouched.
func FixTimeColons(text string) string {
	return splitTimeRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := splitTimeRe.FindStringSubmatch(match)
		hour, _ := strconv.Atoi(parts[1])
		minute, _ := strconv.Atoi(parts[2])
		if hour <= 23 && minute <= 59 {
			return parts[1] + ":" + parts[2]
		}
		return match
	})
}
