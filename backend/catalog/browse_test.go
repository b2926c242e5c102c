package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/backend/models"
)

func sampleCatalog() []models.Course {
	return []models.Course{
		{ID: "go", Title: "Go in Practice", Category: "Development", Price: 40,
			EnrolledStudents: []string{"u1"}, Ratings: []models.RatingEntry{{Rating: 3}}},
		{ID: "ux", Title: "UX Foundations", Category: "Design", Price: 10,
			EnrolledStudents: []string{"u1", "u2", "u3"}, Ratings: []models.RatingEntry{{Rating: 5}}},
		{ID: "gopro", Title: "Advanced GO", Category: "Development", Price: 90,
			EnrolledStudents: []string{"u1", "u2"}, Ratings: []models.RatingEntry{{Rating: 4}}},
	}
}

func ids(courses []models.Course) []string {
	out := make([]string, len(courses))
	for i, c := range courses {
		out[i] = c.ID
	}
	return out
}

func TestBrowseDefaultsToPopularity(t *testing.T) {
	got := Browse(sampleCatalog(), Query{})
	assert.Equal(t, []string{"ux", "gopro", "go"}, ids(got))
}

func TestBrowseSearchIsCaseInsensitive(t *testing.T) {
	got := Browse(sampleCatalog(), Query{Search: " go ", Sort: SortPriceLow})
	assert.Equal(t, []string{"go", "gopro"}, ids(got))
}

func TestBrowseCategoryAndSort(t *testing.T) {
	all := sampleCatalog()

	got := Browse(all, Query{Category: "Development", Sort: SortPriceHigh})
	assert.Equal(t, []string{"gopro", "go"}, ids(got))

	got = Browse(all, Query{Category: CategoryAll, Sort: SortRating})
	assert.Equal(t, []string{"ux", "gopro", "go"}, ids(got))

	// the snapshot itself is untouched
	assert.Equal(t, []string{"go", "ux", "gopro"}, ids(all))
}

func TestFind(t *testing.T) {
	c, ok := Find(sampleCatalog(), "ux")
	require.True(t, ok)
	assert.Equal(t, "UX Foundations", c.Title)

	_, ok = Find(sampleCatalog(), "missing")
	assert.False(t, ok)
}
