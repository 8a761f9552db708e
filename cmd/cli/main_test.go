package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/schedulebuilder/pkg/model"
)

func TestParseWindows(t *testing.T) {
	t.Run("Per-day and all-day values", func(t *testing.T) {
		constraints, err := parseWindows([]string{"8:00am-6:00pm", "Mo=9:00am-5:00pm", "Fr = 10:00 - 14:00"})

		require.NoError(t, err)
		assert.Len(t, constraints, len(model.Weekdays))
		assert.Equal(t, model.ClockRange{Start: "9:00am", End: "5:00pm"}, constraints["Mo"])
		assert.Equal(t, model.ClockRange{Start: "8:00am", End: "6:00pm"}, constraints["Tu"])
		assert.Equal(t, model.ClockRange{Start: "10:00", End: "14:00"}, constraints["Fr"])

		_, err = model.ParseTimeWindow(constraints)
		assert.NoError(t, err)
	})

	t.Run("Malformed values", func(t *testing.T) {
		for _, value := range []string{"Mo=9:00am", "Mo=-5:00pm", "9:00am-"} {
			_, err := parseWindows([]string{value})

			assert.Error(t, err, value)
		}
	})

	t.Run("No values", func(t *testing.T) {
		constraints, err := parseWindows(nil)

		require.NoError(t, err)
		assert.Empty(t, constraints)
	})
}
