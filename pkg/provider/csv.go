package provider

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/schedulebuilder/pkg/model"
)

type sectionRow struct {
	CourseCode        string `csv:"course_code"`
	SectionNumber     string `csv:"section_number"`
	Type              string `csv:"type"`
	Status            string `csv:"status"`
	EnrollmentCurrent string `csv:"enrollment_current"`
	EnrollmentMax     string `csv:"enrollment_max"`
	Instructor        string `csv:"instructor"`
	Schedule          string `csv:"schedule"`
	Location          string `csv:"location"`
	LinkedSection     string `csv:"linked_section"`
}

type ratingRow struct {
	CourseCode string `csv:"course_code"`
	Instructor string `csv:"instructor"`
	Rating     string `csv:"rating"`
	Difficulty string `csv:"difficulty"`
	GPA        string `csv:"gpa"`
	LastTaught string `csv:"last_taught"`
}

// NewCSVCatalog loads one row per section and, when ratingsFile is not empty, one row per course and instructor
func NewCSVCatalog(sectionsFile, ratingsFile string) (*Catalog, error) {
	sectionRows := []*sectionRow{}
	if err := unmarshalFile(sectionsFile, &sectionRows); err != nil {
		return nil, err
	}

	records := make(map[string]model.CourseRecord)
	for i, row := range sectionRows {
		code := strings.TrimSpace(row.CourseCode)
		if code == "" {
			return nil, fmt.Errorf("%v: row %d has no course_code", sectionsFile, i+1)
		}

		section, err := row.rawSection()
		if err != nil {
			return nil, fmt.Errorf("%v: row %d: %w", sectionsFile, i+1, err)
		}
		record := records[code]
		record.Sections = append(record.Sections, section)
		records[code] = record
	}

	if ratingsFile == "" {
		return NewMemoryCatalog(records), nil
	}

	ratingRows := []*ratingRow{}
	if err := unmarshalFile(ratingsFile, &ratingRows); err != nil {
		return nil, err
	}
	for i, row := range ratingRows {
		code := strings.TrimSpace(row.CourseCode)
		record, ok := records[code]
		if !ok {
			continue
		}

		var rating model.InstructorRating
		if err := model.DecodeRecord(map[string]any{
			"rating":      row.Rating,
			"difficulty":  row.Difficulty,
			"gpa":         row.GPA,
			"last_taught": row.LastTaught,
		}, &rating); err != nil {
			return nil, fmt.Errorf("%v: row %d: %w", ratingsFile, i+1, err)
		}
		if record.Ratings == nil {
			record.Ratings = make(map[string]model.InstructorRating)
		}
		record.Ratings[strings.TrimSpace(row.Instructor)] = rating
		records[code] = record
	}

	return NewMemoryCatalog(records), nil
}

func unmarshalFile(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, out); err != nil {
		return fmt.Errorf("cannot parse %v: %w", path, err)
	}
	return nil
}

func (row *sectionRow) rawSection() (model.RawSection, error) {
	current, err := optionalInt(row.EnrollmentCurrent)
	if err != nil {
		return model.RawSection{}, err
	}
	capacity, err := optionalInt(row.EnrollmentMax)
	if err != nil {
		return model.RawSection{}, err
	}

	section := model.RawSection{
		SectionNumber:     row.SectionNumber,
		Type:              row.Type,
		Status:            row.Status,
		EnrollmentCurrent: current,
		EnrollmentMax:     capacity,
		Instructor:        row.Instructor,
		Location:          row.Location,
		LinkedSection:     row.LinkedSection,
	}
	if row.Schedule != "" {
		section.Schedule = []string{row.Schedule}
	}
	return section, nil
}

func optionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid enrollment %q", value)
	}
	return &parsed, nil
}
