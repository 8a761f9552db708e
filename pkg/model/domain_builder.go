package model

import (
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type BuilderOptions struct {
	// Drop sections whose provider status is "Closed"
	ExcludeClosed bool
}

// DomainBuilder turns per-course provider data into the variables and domains searched by a Scheduler
type DomainBuilder interface {
	Build(courses []string, catalog map[string][]RawSection) (Problem, error)
}

func NewDomainBuilder(logger *zap.Logger, options BuilderOptions) DomainBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &domainBuilder{
		logger:  logger,
		options: options,
	}
}

type domainBuilder struct {
	logger  *zap.Logger
	options BuilderOptions
}

func (builder *domainBuilder) Build(courses []string, catalog map[string][]RawSection) (Problem, error) {
	problem := Problem{
		Variables: make([]Variable, 0, len(courses)),
		Domains:   make(map[Variable]Domain),
	}

	for _, course := range lo.Uniq(courses) {
		variable := Variable(course)
		rawSections, ok := catalog[course]
		if !ok {
			return Problem{}, &InfeasibleDomainError{Variable: variable, Reason: "course not found in catalog"}
		}

		//** Partition sections into lecture-like and lab-like
		lectures, labs := Domain{}, Domain{}
		for _, section := range builder.sections(course, rawSections) {
			if section.Kind == Lab {
				labs = append(labs, section)
			} else {
				lectures = append(lectures, section)
			}
		}

		if len(lectures) == 0 {
			return Problem{}, &InfeasibleDomainError{Variable: variable, Reason: "no schedulable lecture sections"}
		}
		problem.Variables = append(problem.Variables, variable)
		problem.Domains[variable] = lectures

		//** Promote lab sections into a sibling variable
		if len(labs) > 0 {
			labVariable := LabVariable(course)
			problem.Variables = append(problem.Variables, labVariable)
			problem.Domains[labVariable] = labs
		}
	}

	return problem, nil
}

// sections converts raw records into Sections, merging repeated section numbers and dropping the ones that cannot be scheduled
func (builder *domainBuilder) sections(course string, rawSections []RawSection) []Section {
	//** Group rows by section number; additional rows of a section contribute extra meetings
	codes := make([]string, 0, len(rawSections))
	rows := make(map[string][]RawSection)
	for _, raw := range rawSections {
		code := strings.TrimSpace(raw.SectionNumber)
		if code == "" {
			builder.logger.Warn("skipping section without number", zap.String("course", course))
			continue
		}
		if _, seen := rows[code]; !seen {
			codes = append(codes, code)
		}
		rows[code] = append(rows[code], raw)
	}

	sections := make([]Section, 0, len(codes))
	for _, code := range codes {
		raw := rows[code][0]

		var fragments []string
		var blocks []TimeBlock
		for _, row := range rows[code] {
			rowFragments := scheduleFragments(row.Schedule)
			fragments = append(fragments, rowFragments...)
			blocks = append(blocks, builder.parseFragments(course, code, rowFragments)...)
		}

		if len(fragments) > 0 && len(blocks) == 0 {
			builder.logger.Warn("excluding section with no parseable schedule",
				zap.String("course", course),
				zap.String("section", code),
				zap.Strings("schedule", fragments),
			)
			continue
		}

		section := Section{
			Code:          code,
			Kind:          ClassifySection(raw.Type, code),
			Schedule:      fragments,
			Blocks:        blocks,
			Instructor:    strings.TrimSpace(raw.Instructor),
			Rating:        raw.Rating,
			Difficulty:    raw.Difficulty,
			GPA:           raw.GPA,
			Location:      strings.TrimSpace(raw.Location),
			Status:        strings.TrimSpace(raw.Status),
			LinkedSection: strings.TrimSpace(raw.LinkedSection),
		}
		if raw.EnrollmentCurrent != nil && raw.EnrollmentMax != nil {
			section.Enrollment = &Enrollment{Current: *raw.EnrollmentCurrent, Max: *raw.EnrollmentMax}
		}

		if builder.options.ExcludeClosed && section.Closed() {
			builder.logger.Debug("excluding closed section", zap.String("course", course), zap.String("section", code))
			continue
		}

		sections = append(sections, section)
	}

	return sections
}

func (builder *domainBuilder) parseFragments(course, code string, fragments []string) []TimeBlock {
	blocks := make([]TimeBlock, 0, len(fragments))
	for _, fragment := range fragments {
		block, err := ParseSchedule(fragment)
		if err != nil {
			builder.logger.Warn("skipping unparseable schedule",
				zap.String("course", course),
				zap.String("section", code),
				zap.Error(err),
			)
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// scheduleFragments splits comma-joined schedule text and drops empty, TBA and digit-leading fragments
func scheduleFragments(schedule []string) []string {
	return lo.FlatMap(schedule, func(joined string, _ int) []string {
		return lo.FilterMap(strings.Split(joined, ","), func(fragment string, _ int) (string, bool) {
			fragment = strings.TrimSpace(fragment)
			return fragment, fragment != "" && !isDigit(fragment[0]) && !strings.EqualFold(fragment, "tba")
		})
	})
}
