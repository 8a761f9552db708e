package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/schedulebuilder/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataDirectory = "testdata"

func TestJSONCatalog(t *testing.T) {
	catalog, err := NewJSONCatalog(filepath.Join(testDataDirectory, "course_data.json"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Decodes provider records", func(t *testing.T) {
		sections, err := catalog.Sections(ctx, "CS 2100")

		require.NoError(t, err)
		require.Len(t, sections, 3)
		assert.Equal(t, "101", sections[2].SectionNumber)
		assert.Equal(t, "001", sections[2].LinkedSection)
		assert.Equal(t, 200, *sections[0].EnrollmentMax)
		assert.Equal(t, []string{"MoWeFr 11:00am - 11:50am"}, sections[0].Schedule)
		assert.Equal(t, []string{"CS 2100", "MATH 3100"}, catalog.Courses())
	})

	t.Run("Numeric section numbers and list schedules", func(t *testing.T) {
		sections, err := catalog.Sections(ctx, "MATH 3100")

		require.NoError(t, err)
		assert.Equal(t, "1", sections[0].SectionNumber)
		assert.Equal(t, []string{"TuTh 9:30am - 10:45am"}, sections[1].Schedule)
	})

	t.Run("Ratings with missing values", func(t *testing.T) {
		ratings, err := catalog.Ratings(ctx, "CS 2100")

		require.NoError(t, err)
		assert.InDelta(t, 3.9, *ratings["alan turing"].Rating, 1e-9)
		assert.Nil(t, ratings["alan turing"].GPA)
	})

	t.Run("Unknown course", func(t *testing.T) {
		_, err := catalog.Sections(ctx, "PHYS 1425")

		assert.ErrorIs(t, err, ErrCourseNotFound)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := catalog.Sections(cancelled, "CS 2100")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestYAMLCatalog(t *testing.T) {
	catalog, err := Load("yaml", filepath.Join(testDataDirectory, "course_data.yaml"), "")
	require.NoError(t, err)

	sections, err := catalog.Sections(context.Background(), "CS 2100")
	require.NoError(t, err)
	ratings, err := catalog.Ratings(context.Background(), "CS 2100")
	require.NoError(t, err)

	require.Len(t, sections, 2)
	assert.Equal(t, "101", sections[1].SectionNumber)
	assert.Equal(t, []string{"Mo 3:30pm - 4:45pm"}, sections[1].Schedule)
	assert.Equal(t, 180, *sections[0].EnrollmentCurrent)
	assert.InDelta(t, 4.6, *ratings["Ada Lovelace"].Rating, 1e-9)
	assert.Nil(t, ratings["Ada Lovelace"].GPA)
}

func TestCSVCatalog(t *testing.T) {
	t.Run("Sections and ratings", func(t *testing.T) {
		catalog, err := Load("csv",
			filepath.Join(testDataDirectory, "sections.csv"),
			filepath.Join(testDataDirectory, "ratings.csv"),
		)
		require.NoError(t, err)

		sections, err := catalog.Sections(context.Background(), "CS 2100")
		require.NoError(t, err)
		ratings, err := catalog.Ratings(context.Background(), "MATH 3100")
		require.NoError(t, err)

		require.Len(t, sections, 2)
		assert.Nil(t, sections[1].EnrollmentCurrent)
		assert.Equal(t, "Laboratory", sections[1].Type)
		assert.Nil(t, ratings["Grace Hopper"].Rating)
		assert.InDelta(t, 2.5, *ratings["Grace Hopper"].Difficulty, 1e-9)
		assert.Equal(t, "Spring 2025", ratings["Grace Hopper"].LastTaught)
	})

	t.Run("Invalid enrollment", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "sections.csv")
		require.NoError(t, os.WriteFile(file, []byte(
			"course_code,section_number,enrollment_current\nCS 2100,001,many\n"), 0o644))

		_, err := NewCSVCatalog(file, "")

		assert.Error(t, err)
	})

	t.Run("Unsupported format", func(t *testing.T) {
		_, err := Load("xml", "catalog.xml", "")

		assert.Error(t, err)
	})
}

type failingProvider struct {
	*Catalog
	failing string
}

func (provider failingProvider) Sections(ctx context.Context, course string) ([]model.RawSection, error) {
	if course == provider.failing {
		return nil, errors.New("upstream unavailable")
	}
	return provider.Catalog.Sections(ctx, course)
}

func TestFetch(t *testing.T) {
	catalog, err := NewJSONCatalog(filepath.Join(testDataDirectory, "course_data.json"))
	require.NoError(t, err)

	t.Run("Merges ratings by instructor", func(t *testing.T) {
		//** Act
		fetched, err := Fetch(context.Background(), catalog, []string{"CS 2100", "MATH 3100", "CS 2100"})

		//** Assert
		require.NoError(t, err)
		assert.Len(t, fetched, 2)
		cs := fetched["CS 2100"]
		assert.InDelta(t, 4.6, *cs[0].Rating, 1e-9)
		assert.InDelta(t, 3.9, *cs[1].Rating, 1e-9)
		assert.Nil(t, cs[1].GPA)
		math := fetched["MATH 3100"]
		assert.Nil(t, math[0].Rating)
		assert.InDelta(t, 4.9, *math[1].Rating, 1e-9)
	})

	t.Run("Unknown courses are left out", func(t *testing.T) {
		fetched, err := Fetch(context.Background(), catalog, []string{"CS 2100", "PHYS 1425"})

		require.NoError(t, err)
		assert.Contains(t, fetched, "CS 2100")
		assert.NotContains(t, fetched, "PHYS 1425")
	})

	t.Run("Provider failures propagate", func(t *testing.T) {
		provider := failingProvider{Catalog: catalog, failing: "MATH 3100"}

		_, err := Fetch(context.Background(), provider, []string{"CS 2100", "MATH 3100"})

		assert.ErrorContains(t, err, "upstream unavailable")
	})
}

func TestMergeRatings(t *testing.T) {
	own := 2.0
	other := 5.0
	sections := []model.RawSection{
		{SectionNumber: "001", Instructor: "Ada Lovelace", Rating: &own},
		{SectionNumber: "002", Instructor: "Staff"},
	}

	merged := MergeRatings(sections, map[string]model.InstructorRating{
		"ADA LOVELACE": {Rating: &other, Difficulty: &other},
	})

	assert.Equal(t, 2.0, *merged[0].Rating)
	assert.Equal(t, 5.0, *merged[0].Difficulty)
	assert.Nil(t, merged[1].Rating)
	assert.Nil(t, sections[0].Difficulty)
}
