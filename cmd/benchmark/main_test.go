package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/schedulebuilder/pkg/model"
)

func TestParseDuration(t *testing.T) {
	t.Run("Valid durations", func(t *testing.T) {
		for input, expected := range map[string]int64{
			"00:01:01.12": 60*1000 + 1000 + 120,
			"01:01:01.12": 60*60*1000 + 60*1000 + 1000 + 120,
			"1:01.12":     60*1000 + 1000 + 120,
			"0:00.12":     120,
			"00:00:00.12": 120,
		} {
			duration, err := parseDuration(input)

			require.NoError(t, err, input)
			assert.Equal(t, expected, duration, input)
		}
	})

	t.Run("Malformed durations", func(t *testing.T) {
		for _, input := range []string{"0:05", "5", "", "1:2:3:4.00", "a:05.00", "0:05.xx"} {
			_, err := parseDuration(input)

			assert.Error(t, err, input)
		}
	})
}

func TestGenerateInstance(t *testing.T) {
	instance := InstanceMetadata{Name: "test", Courses: 4, Sections: 3}
	courses, catalog := generateInstance(rand.New(rand.NewSource(7)), instance)

	require.Len(t, courses, instance.Courses)
	for _, course := range courses {
		require.Len(t, catalog[course], instance.Sections)
		for _, section := range catalog[course] {
			_, err := model.ParseSchedule(section.Schedule[0])
			require.NoError(t, err, section.Schedule[0])
		}
	}

	//** Odd courses carry a lab, which adds one variable each
	problem, err := model.NewDomainBuilder(nil, model.BuilderOptions{}).Build(courses, catalog)
	require.NoError(t, err)
	assert.Len(t, problem.Variables, instance.Courses+instance.Courses/2)
}

func TestMeasure(t *testing.T) {
	instance := InstanceMetadata{Name: "test", Courses: 3, Sections: 4}
	courses, catalog := generateInstance(rand.New(rand.NewSource(3)), instance)
	problem, err := model.NewDomainBuilder(nil, model.BuilderOptions{}).Build(courses, catalog)
	require.NoError(t, err)

	for _, optimize := range []bool{false, true} {
		result := measure(instance, problem, optimize, time.Second)

		assert.Equal(t, optimize, result.Optimize)
		assert.Equal(t, len(problem.Variables), result.Variables)
		assert.Contains(t, []string{resultTypes[solved], resultTypes[unsatisfiable]}, result.Result)
		assert.Positive(t, result.Nodes)
	}
}
