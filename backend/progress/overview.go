package progress

import (
	"context"

	"golang.org/x/sync/errgroup"

	"storefront/backend/catalog"
	"storefront/backend/models"
)

// Fetcher loads one course's progress record.
type Fetcher interface {
	FetchProgress(ctx context.Context, token, courseID string) (*models.ProgressRecord, error)
}

// Overview fetches progress for every enrolled course at once and returns
// the rows in the order of courses once all requests have finished. A course
// whose fetch failed is reported with Failed set and zero progress.
func Overview(ctx context.Context, f Fetcher, token string, courses []models.Course) []models.EnrollmentProgress {
	records := make([]*models.ProgressRecord, len(courses))
	failed := make([]bool, len(courses))

	g, gctx := errgroup.WithContext(ctx)
	for i := range courses {
		i := i
		g.Go(func() error {
			rec, err := f.FetchProgress(gctx, token, courses[i].ID)
			if err != nil {
				failed[i] = true
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	rows := make([]models.EnrollmentProgress, len(courses))
	for i := range courses {
		c := &courses[i]
		total := catalog.LectureCount(c)
		minutes := catalog.CourseDurationMinutes(c)
		row := models.EnrollmentProgress{
			CourseID:        c.ID,
			Title:           c.Title,
			Educator:        c.Educator.Name,
			Thumbnail:       c.Thumbnail,
			DurationMinutes: minutes,
			Duration:        catalog.HumanizeMinutes(minutes),
			TotalLectures:   total,
			Failed:          failed[i],
		}
		if rec := records[i]; rec != nil {
			row.CompletedLectures = len(rec.LectureCompleted)
			row.CompletionPercent = Percent(row.CompletedLectures, total)
			row.Completed = rec.Completed || (total > 0 && row.CompletionPercent == 100)
		}
		rows[i] = row
	}
	return rows
}
