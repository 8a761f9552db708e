package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/limaJavier/schedulebuilder/pkg/model"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Fetch collects the sections of every course concurrently and merges instructor ratings into them.
// Courses the provider does not know are left out of the result so the DomainBuilder can report them.
func Fetch(ctx context.Context, provider Provider, courses []string) (map[string][]model.RawSection, error) {
	courses = lo.Uniq(courses)
	results := make([][]model.RawSection, len(courses))
	found := make([]bool, len(courses))

	g, gCtx := errgroup.WithContext(ctx)
	for i, course := range courses {
		g.Go(func() error {
			sections, err := provider.Sections(gCtx, course)
			if errors.Is(err, ErrCourseNotFound) {
				return nil
			} else if err != nil {
				return fmt.Errorf("cannot fetch sections of %v: %w", course, err)
			}

			ratings, err := provider.Ratings(gCtx, course)
			if err != nil && !errors.Is(err, ErrCourseNotFound) {
				return fmt.Errorf("cannot fetch ratings of %v: %w", course, err)
			}

			results[i] = MergeRatings(sections, ratings)
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	catalog := make(map[string][]model.RawSection, len(courses))
	for i, course := range courses {
		if found[i] {
			catalog[course] = results[i]
		}
	}
	return catalog, nil
}

// MergeRatings fills the rating, difficulty and GPA of each section from its instructor's entry.
// Names match exactly first, then case-insensitively; values already on a section are kept.
func MergeRatings(sections []model.RawSection, ratings map[string]model.InstructorRating) []model.RawSection {
	merged := make([]model.RawSection, len(sections))
	for i, section := range sections {
		rating, ok := lookupInstructor(ratings, section.Instructor)
		if ok {
			section.Rating = lo.CoalesceOrEmpty(section.Rating, rating.Rating)
			section.Difficulty = lo.CoalesceOrEmpty(section.Difficulty, rating.Difficulty)
			section.GPA = lo.CoalesceOrEmpty(section.GPA, rating.GPA)
		}
		merged[i] = section
	}
	return merged
}

func lookupInstructor(ratings map[string]model.InstructorRating, instructor string) (model.InstructorRating, bool) {
	instructor = strings.TrimSpace(instructor)
	if instructor == "" {
		return model.InstructorRating{}, false
	}
	if rating, ok := ratings[instructor]; ok {
		return rating, true
	}
	for name, rating := range ratings {
		if strings.EqualFold(strings.TrimSpace(name), instructor) {
			return rating, true
		}
	}
	return model.InstructorRating{}, false
}
