// Package seed inserts the reference data the platform expects on a fresh database
package seed

import (
	"context"
	"errors"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/rs/zerolog"
)

// UniversityStore inserts a university unless one with the same name exists
type UniversityStore interface {
	EnsureByName(ctx context.Context, u *models.University) (bool, error)
}

// EventCategoryStore inserts an event category unless one with the same name exists
type EventCategoryStore interface {
	EnsureCategory(ctx context.Context, c *models.EventCategory) (bool, error)
}

// JobCategoryStore inserts a job category unless one with the same name exists
type JobCategoryStore interface {
	EnsureCategory(ctx context.Context, c *models.JobCategory) (bool, error)
}

func year(y int) *int { return &y }

var defaultUniversities = []models.University{
	{Name: "Harvard University", Location: "Cambridge, MA", Website: "https://www.harvard.edu", Description: "Private Ivy League research university", EstablishedYear: year(1636)},
	{Name: "Stanford University", Location: "Stanford, CA", Website: "https://www.stanford.edu", Description: "Private research university in Silicon Valley", EstablishedYear: year(1885)},
	{Name: "Massachusetts Institute of Technology", Location: "Cambridge, MA", Website: "https://www.mit.edu", Description: "Private research university focused on science and technology", EstablishedYear: year(1861)},
	{Name: "University of California, Berkeley", Location: "Berkeley, CA", Website: "https://www.berkeley.edu", Description: "Public research university", EstablishedYear: year(1868)},
	{Name: "University of Oxford", Location: "Oxford, UK", Website: "https://www.ox.ac.uk", Description: "Collegiate research university", EstablishedYear: year(1096)},
}

var defaultEventCategories = []models.EventCategory{
	{Name: "Networking", Description: "Meet fellow alumni and students", Color: "#007bff"},
	{Name: "Career", Description: "Career fairs, recruiting and job search", Color: "#28a745"},
	{Name: "Workshop", Description: "Hands-on skill sessions", Color: "#fd7e14"},
	{Name: "Reunion", Description: "Class and campus reunions", Color: "#6f42c1"},
	{Name: "Webinar", Description: "Online talks and panels", Color: "#17a2b8"},
}

var defaultJobCategories = []models.JobCategory{
	{Name: "Software Engineering", Description: "Software development and engineering roles"},
	{Name: "Data Science", Description: "Analytics, machine learning and data engineering"},
	{Name: "Product Management", Description: "Product and program management"},
	{Name: "Marketing", Description: "Marketing, growth and communications"},
	{Name: "Finance", Description: "Finance, accounting and consulting"},
	{Name: "Design", Description: "UX, UI and visual design"},
}

// CreateDefaultData inserts default universities, event categories and job categories.
// Existing rows are left alone, so it is safe to run on every start. Failures are joined
// and returned after every item has been tried.
func CreateDefaultData(ctx context.Context, universities UniversityStore, eventCategories EventCategoryStore, jobCategories JobCategoryStore, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (universities and categories)...")
	var finalErr error
	created := 0

	for i := range defaultUniversities {
		u := defaultUniversities[i]
		inserted, err := universities.EnsureByName(ctx, &u)
		if err != nil {
			lgr.Error().Err(err).Str("university", u.Name).Msg("Error creating university")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if inserted {
			created++
		}
	}

	for i := range defaultEventCategories {
		c := defaultEventCategories[i]
		inserted, err := eventCategories.EnsureCategory(ctx, &c)
		if err != nil {
			lgr.Error().Err(err).Str("category", c.Name).Msg("Error creating event category")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if inserted {
			created++
		}
	}

	for i := range defaultJobCategories {
		c := defaultJobCategories[i]
		inserted, err := jobCategories.EnsureCategory(ctx, &c)
		if err != nil {
			lgr.Error().Err(err).Str("category", c.Name).Msg("Error creating job category")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if inserted {
			created++
		}
	}

	lgr.Info().Int("created", created).Msg("Default data check finished")
	return finalErr
}
