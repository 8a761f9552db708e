package model

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// ParseSchedule converts a raw schedule string such as "MoWeFr 11:00am - 11:50am" into a TimeBlock
func ParseSchedule(schedule string) (TimeBlock, error) {
	compact := strings.Join(strings.Fields(schedule), "")
	if compact == "" {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: "empty schedule"}
	}

	//** Split days-token from the time range
	daysEnd := strings.IndexFunc(compact, func(r rune) bool { return !unicode.IsLetter(r) })
	if daysEnd == 0 {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: "missing days token"}
	} else if daysEnd < 0 {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: "missing time range"}
	}
	daysToken, timeRange := compact[:daysEnd], compact[daysEnd:]

	days, err := splitDays(daysToken)
	if err != nil {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: err.Error()}
	}

	//** Parse start and end
	bounds := strings.Split(timeRange, "-")
	if len(bounds) != 2 {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: "expected exactly one start-end range"}
	}
	start, err := ParseTime(bounds[0])
	if err != nil {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: err.Error()}
	}
	end, err := ParseTime(bounds[1])
	if err != nil {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: err.Error()}
	}
	if start >= end {
		return TimeBlock{}, &ParseError{Input: schedule, Reason: "start must precede end"}
	}

	return TimeBlock{Days: days, Start: start, End: end}, nil
}

// ParseTime accepts a 12-hour clock time with an am/pm suffix, with or without colon ("11:00am", "1100am")
func ParseTime(value string) (TimeOfDay, error) {
	compact := strings.ToLower(strings.Join(strings.Fields(value), ""))

	var afternoon bool
	switch {
	case strings.HasSuffix(compact, "am"):
	case strings.HasSuffix(compact, "pm"):
		afternoon = true
	default:
		return 0, &ParseError{Input: value, Reason: "missing am/pm marker"}
	}
	digits := strings.TrimSuffix(strings.TrimSuffix(compact, "am"), "pm")

	var hourStr, minuteStr string
	if hourPart, minutePart, found := strings.Cut(digits, ":"); found {
		hourStr, minuteStr = hourPart, minutePart
	} else if len(digits) == 3 || len(digits) == 4 {
		hourStr, minuteStr = digits[:len(digits)-2], digits[len(digits)-2:]
	} else {
		return 0, &ParseError{Input: value, Reason: "unrecognized time layout"}
	}

	hour, minute, err := clockFields(hourStr, minuteStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0, &ParseError{Input: value, Reason: "invalid hour or minute"}
	}

	hour = hour % 12
	if afternoon {
		hour += 12
	}
	return NewTimeOfDay(hour, minute), nil
}

// ParseClock accepts either the 12-hour form handled by ParseTime or a 24-hour "HH:MM" value
func ParseClock(value string) (TimeOfDay, error) {
	compact := strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(compact, "am") || strings.HasSuffix(compact, "pm") {
		return ParseTime(value)
	}

	hourStr, minuteStr, found := strings.Cut(compact, ":")
	if !found {
		return 0, &ParseError{Input: value, Reason: "unrecognized time layout"}
	}
	hour, minute, err := clockFields(hourStr, minuteStr)
	if err != nil || hour > 23 {
		return 0, &ParseError{Input: value, Reason: "invalid hour or minute"}
	}
	return NewTimeOfDay(hour, minute), nil
}

func clockFields(hourStr, minuteStr string) (hour, minute int, err error) {
	if len(hourStr) < 1 || len(hourStr) > 2 || len(minuteStr) != 2 {
		return 0, 0, strconv.ErrSyntax
	}
	if hour, err = strconv.Atoi(hourStr); err != nil || hour < 0 {
		return 0, 0, strconv.ErrSyntax
	}
	if minute, err = strconv.Atoi(minuteStr); err != nil || minute < 0 || minute > 59 {
		return 0, 0, strconv.ErrSyntax
	}
	return hour, minute, nil
}

// splitDays chops a days-token into two-letter codes in the order they appear, without repeats
func splitDays(token string) ([]Weekday, error) {
	runes := []rune(token)
	if len(runes)%2 != 0 {
		return nil, errors.New("days token must have an even length")
	}

	days := make([]Weekday, 0, len(runes)/2)
	for i := 0; i < len(runes); i += 2 {
		days = append(days, normalizeWeekday(string(runes[i:i+2])))
	}
	return lo.Uniq(days), nil
}
