package model

import (
	"slices"

	"github.com/samber/lo"
)

type SolutionStats struct {
	AverageRating     float64 `json:"average_rating"`
	AverageDifficulty float64 `json:"average_difficulty"`
	AverageGPA        float64 `json:"average_gpa"`
}

// Plan is the reportable outcome of one scheduling request
type Plan struct {
	ID       string                        `json:"id"`
	Feasible bool                          `json:"feasible"`
	Schedule map[string]map[string]Section `json:"schedule"`
	Stats    SolutionStats                 `json:"stats"`
	Search   SearchStats                   `json:"search"`
}

// Summarize averages the ratings, difficulties and GPAs present in the assignment. Metrics no section carries average to 0.
func Summarize(assignment Assignment) SolutionStats {
	var rating, difficulty, gpa metricTotal
	for _, variable := range sortedVariables(assignment) {
		section := assignment[variable]
		rating.add(section.Rating)
		difficulty.add(section.Difficulty)
		gpa.add(section.GPA)
	}

	return SolutionStats{
		AverageRating:     rating.average(),
		AverageDifficulty: difficulty.average(),
		AverageGPA:        gpa.average(),
	}
}

// NewPlan builds the report of a solve. A nil assignment yields an infeasible plan with an empty schedule.
func NewPlan(id string, assignment Assignment, search SearchStats) Plan {
	schedule := make(map[string]map[string]Section, len(assignment))
	for variable, section := range assignment {
		schedule[string(variable)] = map[string]Section{section.Code: section}
	}

	return Plan{
		ID:       id,
		Feasible: assignment != nil,
		Schedule: schedule,
		Stats:    Summarize(assignment),
		Search:   search,
	}
}

type metricTotal struct {
	sum   float64
	count int
}

func (total *metricTotal) add(value *float64) {
	if value == nil {
		return
	}
	total.sum += *value
	total.count++
}

func (total metricTotal) average() float64 {
	if total.count == 0 {
		return 0
	}
	return total.sum / float64(total.count)
}

func sortedVariables(assignment Assignment) []Variable {
	variables := lo.Keys(assignment)
	slices.Sort(variables)
	return variables
}
