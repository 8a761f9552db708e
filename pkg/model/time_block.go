package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Weekday is a two-letter day code such as "Mo" or "Th"
type Weekday string

var Weekdays = []Weekday{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func normalizeWeekday(code string) Weekday {
	if len(code) != 2 {
		return Weekday(code)
	}
	return Weekday(strings.ToUpper(code[:1]) + strings.ToLower(code[1:]))
}

// TimeOfDay is expressed in minutes since midnight
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	suffix := "am"
	if t.Hour() >= 12 {
		suffix = "pm"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d%s", hour, t.Minute(), suffix)
}

type TimeBlock struct {
	Days  []Weekday
	Start TimeOfDay
	End   TimeOfDay
}

func (block TimeBlock) String() string {
	days := strings.Join(lo.Map(block.Days, func(day Weekday, _ int) string { return string(day) }), "")
	return fmt.Sprintf("%v %v-%v", days, block.Start, block.End)
}

func (block TimeBlock) MeetsOn(day Weekday) bool {
	return lo.Contains(block.Days, day)
}
