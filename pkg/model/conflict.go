package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Window is the allowed [Earliest, Latest] range of a single day
type Window struct {
	Earliest TimeOfDay
	Latest   TimeOfDay
}

// TimeWindow maps a weekday to the range classes must fall inside; days absent from the map are unrestricted
type TimeWindow map[Weekday]Window

// ClockRange is the raw form of a Window as received from callers
type ClockRange struct {
	Start string `mapstructure:"start" json:"start" yaml:"start" validate:"required"`
	End   string `mapstructure:"end" json:"end" yaml:"end" validate:"required"`
}

// Overlaps reports whether two blocks share a day and their intervals intersect (shared boundaries do not count)
func Overlaps(blockA, blockB TimeBlock) bool {
	sharesDay := lo.SomeBy(blockA.Days, func(day Weekday) bool {
		return blockB.MeetsOn(day)
	})
	return sharesDay && blockA.Start < blockB.End && blockB.Start < blockA.End
}

// ViolatesWindow reports whether the block starts before or ends after the allowed window of any day it meets on
func ViolatesWindow(block TimeBlock, window TimeWindow) bool {
	return lo.SomeBy(block.Days, func(day Weekday) bool {
		allowed, ok := window[day]
		return ok && (block.Start < allowed.Earliest || block.End > allowed.Latest)
	})
}

func ParseTimeWindow(raw map[string]ClockRange) (TimeWindow, error) {
	window := make(TimeWindow, len(raw))
	for day, bounds := range raw {
		code := normalizeWeekday(strings.TrimSpace(day))
		if len(code) != 2 {
			return nil, &WindowError{Day: day, Reason: "day must be a two-letter code"}
		}

		allowed, err := ParseWindow(bounds.Start, bounds.End)
		if err != nil {
			return nil, &WindowError{Day: day, Reason: err.Error()}
		}
		window[code] = allowed
	}
	return window, nil
}

func ParseWindow(start, end string) (Window, error) {
	earliest, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	latest, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if earliest >= latest {
		return Window{}, fmt.Errorf("start %v must precede end %v", earliest, latest)
	}
	return Window{Earliest: earliest, Latest: latest}, nil
}

// UniformWindow applies the same range to every day of the week
func UniformWindow(allowed Window) TimeWindow {
	return lo.SliceToMap(Weekdays, func(day Weekday) (Weekday, Window) {
		return day, allowed
	})
}
