package topic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hour and offset bounds.
const (
	// MinHour is the earliest valid local delivery hour.
	MinHour = 0

	// MaxHour is the latest valid local delivery hour.
	MaxHour = 23

	// anchorShift moves a UTC instant into the UTC-12 anchor frame.
	anchorShift = -12 * time.Hour
)

// Suffix letters for the day-boundary marker.
const (
	// SuffixCurrent marks topics whose anchor-frame broadcast for today
	// coincides with the user's today.
	SuffixCurrent = "c"

	// SuffixNext marks topics where the user waits for the anchor
	// frame's next daily cycle.
	SuffixNext = "n"
)

// Topic errors.
var (
	ErrInvalidHour  = errors.New("delivery hour out of range")
	ErrInvalidTopic = errors.New("malformed topic name")
)

// referenceDate is the fixed instant all calculations are anchored to.
// Only relative day boundaries matter, so any date works; mid-month keeps
// the +/-26h worst-case shift (UTC+14 offset plus the anchor shift)
// inside a single year for day comparisons.
var referenceDate = time.Date(2000, time.January, 15, 0, 0, 0, 0, time.UTC)

// Name computes the broker topic for delivery at localHour in a timezone
// utcOffsetMin minutes east of UTC. It is pure: no clock, no environment.
func Name(prefix string, localHour, utcOffsetMin int) (string, error) {
	if localHour < MinHour || localHour > MaxHour {
		return "", fmt.Errorf("%w: %d", ErrInvalidHour, localHour)
	}

	// The user's chosen wall-clock moment on the reference date.
	local := referenceDate.Add(time.Duration(localHour) * time.Hour)

	// Strip the zone offset to get the real-world UTC instant, then
	// shift into the UTC-12 anchor frame the broker schedules in.
	utc := local.Add(-time.Duration(utcOffsetMin) * time.Minute)
	anchor := utc.Add(anchorShift)

	// An anchor day behind the local day means today's item arrives on
	// the anchor frame's next cycle. An anchor day at or ahead of the
	// local day uses the current cycle.
	suffix := SuffixCurrent
	if anchor.YearDay() < local.YearDay() {
		suffix = SuffixNext
	}

	return fmt.Sprintf("%s_%02d%s", prefix, anchor.Hour(), suffix), nil
}

// Universe returns every topic the broker could assign for prefix: the
// 24 anchor hours crossed with both suffixes, 48 names in total. Cleanup
// unsubscription iterates this set; the desired topic always comes from
// Name, never from here.
func Universe(prefix string) []string {
	names := make([]string, 0, 2*(MaxHour+1))
	for hour := MinHour; hour <= MaxHour; hour++ {
		names = append(names, fmt.Sprintf("%s_%02d%s", prefix, hour, SuffixCurrent))
		names = append(names, fmt.Sprintf("%s_%02d%s", prefix, hour, SuffixNext))
	}
	return names
}

// Parse extracts the anchor hour and day-boundary flag from a topic name
// produced by Name. next is true for the SuffixNext marker.
func Parse(prefix, name string) (hour int, next bool, err error) {
	rest, ok := strings.CutPrefix(name, prefix+"_")
	if !ok || len(rest) != 3 || rest[0] < '0' || rest[0] > '9' || rest[1] < '0' || rest[1] > '9' {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidTopic, name)
	}

	hour, convErr := strconv.Atoi(rest[:2])
	if convErr != nil || hour < MinHour || hour > MaxHour {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidTopic, name)
	}

	switch rest[2:] {
	case SuffixCurrent:
		return hour, false, nil
	case SuffixNext:
		return hour, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidTopic, name)
	}
}
