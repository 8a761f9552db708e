package model

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

type backtrackingScheduler struct {
	options   SolverOptions
	evaluator predicateEvaluator
}

func NewBacktrackingScheduler(options SolverOptions) Scheduler {
	return &backtrackingScheduler{
		options:   options,
		evaluator: newPredicateEvaluator(options.Window, options.LinkSections),
	}
}

// searchState is the mutable state of a single Solve invocation
type searchState struct {
	ctx        context.Context
	variables  []Variable
	candidates map[Variable]Domain
	assignment Assignment
	stats      SearchStats
}

func (scheduler *backtrackingScheduler) Solve(ctx context.Context, problem Problem) (Assignment, SearchStats, error) {
	started := time.Now()

	//** Validate domains
	for _, variable := range problem.Variables {
		if len(problem.Domains[variable]) == 0 {
			return nil, SearchStats{}, &InfeasibleDomainError{Variable: variable, Reason: "empty domain"}
		}
	}

	//** Order candidates
	state := &searchState{
		ctx:        ctx,
		variables:  lo.Uniq(problem.Variables),
		candidates: make(map[Variable]Domain, len(problem.Variables)),
		assignment: make(Assignment, len(problem.Variables)),
	}
	for _, variable := range state.variables {
		state.candidates[variable] = scheduler.orderCandidates(problem.Domains[variable])
	}

	//** Search
	found, err := scheduler.search(state)
	state.stats.Duration = time.Since(started)
	if err != nil {
		return nil, state.stats, err
	} else if !found { // Return nil if no combination of sections fits
		return nil, state.stats, nil
	}
	return state.assignment.Clone(), state.stats, nil
}

func (scheduler *backtrackingScheduler) search(state *searchState) (bool, error) {
	variable, ok := selectVariable(state)
	if !ok {
		return true, nil
	}

	for _, section := range state.candidates[variable] {
		state.stats.Nodes++
		if scheduler.options.MaxNodes > 0 && state.stats.Nodes > scheduler.options.MaxNodes {
			return false, fmt.Errorf("%w: node budget of %d exhausted", ErrSearchLimit, scheduler.options.MaxNodes)
		} else if err := state.ctx.Err(); err != nil {
			return false, fmt.Errorf("%w: %w", ErrSearchLimit, err)
		}

		if !scheduler.feasible(variable, section, state.assignment) {
			continue
		}

		state.assignment[variable] = section
		found, err := scheduler.search(state)
		if err != nil {
			return false, err
		} else if found {
			return true, nil
		}
		delete(state.assignment, variable)
		state.stats.Backtracks++
	}

	return false, nil
}

// feasible checks a candidate against the partial assignment. Sections without meetings never conflict.
func (scheduler *backtrackingScheduler) feasible(variable Variable, section Section, assignment Assignment) bool {
	if !scheduler.evaluator.Paired(variable, section, assignment) {
		return false
	} else if section.Asynchronous() {
		return true
	}
	return !scheduler.evaluator.OutsideWindow(section) && !scheduler.evaluator.Collides(section, assignment)
}

// selectVariable picks the unassigned variable with the fewest candidates, preferring the earliest on ties
func selectVariable(state *searchState) (Variable, bool) {
	var selected Variable
	found := false
	for _, variable := range state.variables {
		if _, assigned := state.assignment[variable]; assigned {
			continue
		}
		if !found || len(state.candidates[variable]) < len(state.candidates[selected]) {
			selected = variable
			found = true
		}
	}
	return selected, found
}

// orderCandidates returns the domain in provider order, or rated sections first (descending) when optimizing
func (scheduler *backtrackingScheduler) orderCandidates(domain Domain) Domain {
	ordered := slices.Clone(domain)
	if !scheduler.options.OptimizeByRating {
		return ordered
	}

	slices.SortStableFunc(ordered, func(a, b Section) int {
		switch {
		case a.Rating == nil && b.Rating == nil:
			return 0
		case a.Rating == nil:
			return 1
		case b.Rating == nil:
			return -1
		case *a.Rating > *b.Rating:
			return -1
		case *a.Rating < *b.Rating:
			return 1
		}
		return 0
	})
	return ordered
}

func (scheduler *backtrackingScheduler) Verify(assignment Assignment, problem Problem) bool {
	variables := lo.Uniq(problem.Variables)
	if assignment == nil || len(assignment) != len(variables) {
		return false
	}

	//** Every variable holds one of its own candidates
	for _, variable := range variables {
		section, ok := assignment[variable]
		if !ok {
			return false
		}
		if _, ok := problem.Domains[variable].Find(section.Code); !ok {
			return false
		}
	}

	//** Check each section against the ones verified before it
	verified := make(Assignment, len(assignment))
	for _, variable := range variables {
		section := assignment[variable]
		if !scheduler.feasible(variable, section, verified) {
			return false
		}
		verified[variable] = section
	}
	return true
}
