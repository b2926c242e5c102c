package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/backend/models"
	"storefront/backend/testutil"
)

type selectiveFetcher struct {
	*fakeBackend
	broken string
}

func (s *selectiveFetcher) FetchProgress(ctx context.Context, token, courseID string) (*models.ProgressRecord, error) {
	if courseID == s.broken {
		return nil, errors.New("boom")
	}
	return s.fakeBackend.FetchProgress(ctx, token, courseID)
}

func TestOverviewAggregatesAllCourses(t *testing.T) {
	f := &selectiveFetcher{fakeBackend: newFake(), broken: "c3"}
	f.completed["c1"] = []string{"c1-l1", "c1-l2", "c1-l3"}
	f.completed["c2"] = []string{"c2-l1"}

	courses := []models.Course{
		testutil.Course("c1", 0, 0),
		testutil.Course("c2", 10, 0),
		testutil.Course("c3", 10, 0),
		{ID: "empty", Title: "Empty"},
	}
	rows := Overview(context.Background(), f, "tok", courses)
	require.Len(t, rows, 4)

	assert.Equal(t, "c1", rows[0].CourseID)
	assert.True(t, rows[0].Completed)
	assert.Equal(t, 100.0, rows[0].CompletionPercent)
	assert.Equal(t, 75, rows[0].DurationMinutes)
	assert.Equal(t, "1 hour, 15 minutes", rows[0].Duration)

	assert.Equal(t, 1, rows[1].CompletedLectures)
	assert.False(t, rows[1].Completed)
	assert.False(t, rows[1].Failed)

	assert.True(t, rows[2].Failed)
	assert.Equal(t, 0.0, rows[2].CompletionPercent)

	assert.Equal(t, 0, rows[3].TotalLectures)
	assert.False(t, rows[3].Completed)
}
