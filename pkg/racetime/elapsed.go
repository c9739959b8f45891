package racetime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const secondsPerDay = 24 * 60 * 60

// ErrMalformedClock is returned when a clock string is not HH:MM:SS
var ErrMalformedClock = errors.New("malformed clock time")

// ParseClock converts an "HH:MM:SS" string into seconds since midnight
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}

	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedClock, s, err)
		}
		fields[i] = v
	}

	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

// Format renders a number of seconds as zero-padded HH:MM:SS.
// The hour component is not capped at 24.
func Format(total int) string {
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Elapsed returns finish minus start as HH:MM:SS. A finish earlier than the
// start is treated as the next day; longer spans are not supported.
func Elapsed(start, finish string) (string, error) {
	startSec, err := ParseClock(start)
	if err != nil {
		return "", fmt.Errorf("start time: %w", err)
	}
	finishSec, err := ParseClock(finish)
	if err != nil {
		return "", fmt.Errorf("finish time: %w", err)
	}

	if finishSec < startSec {
		finishSec += secondsPerDay
	}

	return Format(finishSec - startSec), nil
}
