package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reClock   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	reClock12 = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	reNoColon = regexp.MustCompile(`^(\d{3,4})(AM|PM)?$`)
)

// ParseTimeInput accepts the loose time formats people type into a time
// field and returns the canonical 24-hour "HH:MM" form:
//
//	"8:30", "08:30"          24-hour clock
//	"8:30 pm", "8:30PM"      12-hour clock, space optional, any case
//	"830", "0830", "830pm"   digits without a colon, optional AM/PM
//
// The second return value is false when the input is not a valid time.
func ParseTimeInput(input string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return "", false
	}

	if m := reClock.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h <= 23 && mm <= 59 {
			return clock(h, mm), true
		}
	}

	if m := reClock12.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h >= 1 && h <= 12 && mm <= 59 {
			return clock(to24(h, m[3]), mm), true
		}
	}

	if m := reNoColon.FindStringSubmatch(s); m != nil {
		digits, meridiem := m[1], m[2]
		switch len(digits) {
		case 3:
			h, _ := strconv.Atoi(digits[:1])
			mm, _ := strconv.Atoi(digits[1:])
			if mm <= 59 {
				return clock(to24(h, meridiem), mm), true
			}
		case 4:
			h, _ := strconv.Atoi(digits[:2])
			mm, _ := strconv.Atoi(digits[2:])
			if h <= 23 && mm <= 59 {
				return clock(to24(h, meridiem), mm), true
			}
		}
	}

	return "", false
}

// to24 applies an optional AM/PM suffix to an hour. Hours already past noon
// are left alone, so "1330PM" stays 13:30 instead of overflowing.
func to24(h int, meridiem string) int {
	switch {
	case meridiem == "PM" && h < 12:
		return h + 12
	case meridiem == "AM" && h == 12:
		return 0
	}
	return h
}

func clock(h, m int) string { return fmt.Sprintf("%02d:%02d", h, m) }

// FormatTimeForDisplay renders a canonical "HH:MM" as "h:MM AM|PM". It
// returns "" when the hour part is missing or out of range.
func FormatTimeForDisplay(hhmm string) string {
	hours, minutes, ok := strings.Cut(hhmm, ":")
	if !ok {
		return ""
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return ""
	}
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, minutes, meridiem)
}
