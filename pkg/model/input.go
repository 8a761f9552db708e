package model

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// RawSection is a section record as supplied by a course data provider
type RawSection struct {
	SectionNumber     string   `mapstructure:"section_number"`
	Type              string   `mapstructure:"type"`
	Status            string   `mapstructure:"status"`
	EnrollmentCurrent *int     `mapstructure:"enrollment_current"`
	EnrollmentMax     *int     `mapstructure:"enrollment_max"`
	Instructor        string   `mapstructure:"instructor"`
	Schedule          []string `mapstructure:"schedule"`
	Location          string   `mapstructure:"location"`
	Topic             string   `mapstructure:"topic"`
	LinkedSection     string   `mapstructure:"linked_section"`

	// Merged from the instructor ratings lookup
	Rating     *float64 `mapstructure:"rating"`
	Difficulty *float64 `mapstructure:"difficulty"`
	GPA        *float64 `mapstructure:"gpa"`
}

type InstructorRating struct {
	Rating     *float64 `mapstructure:"rating"`
	Difficulty *float64 `mapstructure:"difficulty"`
	GPA        *float64 `mapstructure:"gpa"`
	LastTaught string   `mapstructure:"last_taught"`
}

// CourseRecord is the per-course entry of a catalog file
type CourseRecord struct {
	CourseCode  string                      `mapstructure:"course_code"`
	CourseName  string                      `mapstructure:"course_name"`
	Description string                      `mapstructure:"description"`
	Sections    []RawSection                `mapstructure:"current_sections"`
	Ratings     map[string]InstructorRating `mapstructure:"course_ratings"`
}

type ScheduleRequest struct {
	Courses          []string              `mapstructure:"courses" json:"courses" validate:"required,min=1,dive,required"`
	TimeConstraints  map[string]ClockRange `mapstructure:"time_constraints" json:"time_constraints" validate:"omitempty,dive"`
	OptimizeByRating bool                  `mapstructure:"optimize_by_rating" json:"optimize_by_rating"`
}

func RequestFromJson(file string) (ScheduleRequest, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ScheduleRequest{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ScheduleRequest{}, err
	}

	var request ScheduleRequest
	if err := DecodeRecord(inputJson, &request); err != nil {
		return ScheduleRequest{}, fmt.Errorf("cannot decode request: %w", err)
	}
	return request, nil
}

// DecodeRecord decodes loosely-typed provider or request data (as produced by json or yaml unmarshalling) into output
func DecodeRecord(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: rawValueHook,
		Result:     output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

var (
	stringType        = reflect.TypeOf("")
	stringSliceType   = reflect.TypeOf([]string{})
	optionalFloatType = reflect.TypeOf((*float64)(nil))
)

// rawValueHook smooths over the shapes providers actually emit: numeric section numbers, a single
// comma-joined schedule string instead of a list, and "N/A" for missing ratings
func rawValueHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch {
	case to == stringType:
		switch value := data.(type) {
		case int:
			return strconv.Itoa(value), nil
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64), nil
		}
	case to == stringSliceType && from.Kind() == reflect.String:
		return []string{data.(string)}, nil
	case to == optionalFloatType && from.Kind() == reflect.String:
		return parseOptionalFloat(data.(string))
	}
	return data, nil
}

// parseOptionalFloat returns nil for empty or "N/A" values
func parseOptionalFloat(value string) (any, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "n/a") {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", value, err)
	}
	return parsed, nil
}
