package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("Skips absent metrics", func(t *testing.T) {
		//** Arrange
		assignment := Assignment{
			"A":     {Code: "001", Rating: ratingOf(4), Difficulty: ratingOf(2), GPA: ratingOf(3.5)},
			"B":     {Code: "002", Rating: ratingOf(3)},
			"B_lab": {Code: "101"},
		}

		//** Act
		stats := Summarize(assignment)

		//** Assert
		assert.InDelta(t, 3.5, stats.AverageRating, 1e-9)
		assert.InDelta(t, 2.0, stats.AverageDifficulty, 1e-9)
		assert.InDelta(t, 3.5, stats.AverageGPA, 1e-9)
	})

	t.Run("Defaults to zero", func(t *testing.T) {
		assert.Equal(t, SolutionStats{}, Summarize(Assignment{"A": {Code: "001"}}))
		assert.Equal(t, SolutionStats{}, Summarize(nil))
	})
}

func TestNewPlan(t *testing.T) {
	t.Run("Feasible plan groups sections by variable", func(t *testing.T) {
		assignment := Assignment{
			"CS 2100":     newSection(t, "001", ratingOf(4.2), "MoWe 9:00am - 9:50am"),
			"CS 2100_lab": newSection(t, "101", nil, "Fr 1:00pm - 2:50pm"),
		}

		plan := NewPlan("plan-1", assignment, SearchStats{Nodes: 2})

		assert.True(t, plan.Feasible)
		assert.Equal(t, "plan-1", plan.ID)
		assert.Contains(t, plan.Schedule["CS 2100"], "001")
		assert.Contains(t, plan.Schedule["CS 2100_lab"], "101")
		assert.InDelta(t, 4.2, plan.Stats.AverageRating, 1e-9)

		encoded, err := json.Marshal(plan)
		require.NoError(t, err)
		assert.Contains(t, string(encoded), `"kind":"lab"`)
		assert.Contains(t, string(encoded), `"schedule":["MoWe 9:00am - 9:50am"]`)
	})

	t.Run("Nil assignment is infeasible", func(t *testing.T) {
		plan := NewPlan("plan-2", nil, SearchStats{Nodes: 7})

		assert.False(t, plan.Feasible)
		assert.Empty(t, plan.Schedule)
		assert.Equal(t, uint64(7), plan.Search.Nodes)
	})
}
