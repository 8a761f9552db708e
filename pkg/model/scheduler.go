package model

import (
	"context"
	"time"
)

type SolverOptions struct {
	// Try rated sections first, best rating first
	OptimizeByRating bool
	Window           TimeWindow
	// Upper bound on evaluated candidates; zero means unbounded
	MaxNodes uint64
	// Enforce LinkedSection references between a course and its lab variable
	LinkSections bool
}

type SearchStats struct {
	Nodes      uint64        `json:"nodes"`
	Backtracks uint64        `json:"backtracks"`
	Duration   time.Duration `json:"duration"`
}

type Scheduler interface {
	// Solve returns a complete conflict-free assignment, or a nil assignment and nil error when none exists.
	// Errors wrapping ErrSearchLimit mean the search was cut off before reaching a verdict.
	Solve(
		ctx context.Context,
		problem Problem,
	) (assignment Assignment, stats SearchStats, err error)

	Verify(
		assignment Assignment,
		problem Problem,
	) bool
}
