package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/limaJavier/schedulebuilder/pkg/model"
	"gopkg.in/yaml.v3"
)

// Catalog is an immutable, file- or memory-backed Provider
type Catalog struct {
	courses map[string]model.CourseRecord
}

func NewMemoryCatalog(records map[string]model.CourseRecord) *Catalog {
	courses := make(map[string]model.CourseRecord, len(records))
	for code, record := range records {
		if record.CourseCode == "" {
			record.CourseCode = code
		}
		courses[code] = record
	}
	return &Catalog{courses: courses}
}

// NewJSONCatalog loads a file shaped as {course: {current_sections: [...], course_ratings: {...}}}
func NewJSONCatalog(file string) (*Catalog, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var catalogJson map[string]any
	if err := json.Unmarshal(bytes, &catalogJson); err != nil {
		return nil, fmt.Errorf("cannot unmarshal catalog %v: %w", file, err)
	}
	return decodeCatalog(catalogJson)
}

// NewYAMLCatalog loads the same shape as NewJSONCatalog from YAML
func NewYAMLCatalog(file string) (*Catalog, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var catalogYaml map[string]any
	if err := yaml.Unmarshal(bytes, &catalogYaml); err != nil {
		return nil, fmt.Errorf("cannot unmarshal catalog %v: %w", file, err)
	}
	return decodeCatalog(catalogYaml)
}

func decodeCatalog(input map[string]any) (*Catalog, error) {
	records := make(map[string]model.CourseRecord, len(input))
	for code, value := range input {
		var record model.CourseRecord
		if err := model.DecodeRecord(value, &record); err != nil {
			return nil, fmt.Errorf("cannot decode course %v: %w", code, err)
		}
		records[code] = record
	}
	return NewMemoryCatalog(records), nil
}

func (catalog *Catalog) Sections(ctx context.Context, course string) ([]model.RawSection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record, ok := catalog.courses[course]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrCourseNotFound, course)
	}
	return slices.Clone(record.Sections), nil
}

func (catalog *Catalog) Ratings(ctx context.Context, course string) (map[string]model.InstructorRating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record, ok := catalog.courses[course]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrCourseNotFound, course)
	}
	return maps.Clone(record.Ratings), nil
}

// Courses lists the catalog's course codes in ascending order
func (catalog *Catalog) Courses() []string {
	return slices.Sorted(maps.Keys(catalog.courses))
}

// Load opens a catalog in the given format ("json", "yaml" or "csv"). ratingsFile is only read for csv.
func Load(format, file, ratingsFile string) (*Catalog, error) {
	switch format {
	case "", "json":
		return NewJSONCatalog(file)
	case "yaml", "yml":
		return NewYAMLCatalog(file)
	case "csv":
		return NewCSVCatalog(file, ratingsFile)
	}
	return nil, fmt.Errorf("unsupported catalog format %q", format)
}
