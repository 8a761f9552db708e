package provider

import (
	"context"
	"errors"

	"github.com/limaJavier/schedulebuilder/pkg/model"
)

var ErrCourseNotFound = errors.New("course not found")

// Provider supplies raw section data and instructor ratings per course code.
// Implementations must be safe for concurrent use.
type Provider interface {
	Sections(ctx context.Context, course string) ([]model.RawSection, error)
	// Ratings is keyed by instructor name
	Ratings(ctx context.Context, course string) (map[string]model.InstructorRating, error)
}
