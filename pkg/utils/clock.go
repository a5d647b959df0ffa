package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrTimeFormat is returned for clock or duration strings that match none of
// the accepted forms.
var ErrTimeFormat = errors.New("invalid time format")

var (
	clockRegex    = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	hourRegex     = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)$`)
	minuteRegex   = regexp.MustCompile(`^(\d+)\s*(?:minutes?|mins?|m)$`)
	combinedRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)\s*(\d+)\s*(?:minutes?|mins?|m)$`)
)

// ParseClock converts a strict 24-hour "HH:mm" string into minutes since
// midnight.
func ParseClock(s string) (int, error) {
	matches := clockRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, fmt.Errorf("%w: %q is not a valid HH:mm clock", ErrTimeFormat, s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])

	return hours*60 + minutes, nil
}

// ParseDuration converts a free-text duration into minutes. Accepted forms:
// a bare integer ("90"), hours ("1 hour", "2 hrs", "1.5h"), minutes
// ("30 min", "45 minutes") and the combined form ("1h 30m").
func ParseDuration(s string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return 0, fmt.Errorf("%w: empty duration", ErrTimeFormat)
	}

	if n, err := strconv.Atoi(normalized); err == nil {
		return n, nil
	}

	if matches := combinedRegex.FindStringSubmatch(normalized); matches != nil {
		hours, _ := strconv.ParseFloat(matches[1], 64)
		minutes, _ := strconv.Atoi(matches[2])
		return roundMinutes(hours*60) + minutes, nil
	}

	if matches := hourRegex.FindStringSubmatch(normalized); matches != nil {
		hours, _ := strconv.ParseFloat(matches[1], 64)
		return roundMinutes(hours * 60), nil
	}

	if matches := minuteRegex.FindStringSubmatch(normalized); matches != nil {
		minutes, _ := strconv.Atoi(matches[1])
		return minutes, nil
	}

	return 0, fmt.Errorf("%w: cannot parse duration %q", ErrTimeFormat, s)
}

// FormatClock renders minutes since midnight as "HH:mm".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func roundMinutes(f float64) int {
	return int(f + 0.5)
}
