package catalog

import (
	"sort"
	"strings"

	"storefront/backend/models"
)

const (
	SortPopularity = "popularity"
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
	SortRating     = "rating"

	CategoryAll = "All"
)

var Categories = []string{CategoryAll, "Development", "Design", "Business", "Marketing", "Lifestyle"}

type Query struct {
	Search   string
	Category string
	Sort     string
}

// Browse filters and sorts a copy of courses; the input slice is left as is.
func Browse(courses []models.Course, q Query) []models.Course {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if needle != "" && !strings.Contains(strings.ToLower(c.Title), needle) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && c.Category != q.Category {
			continue
		}
		out = append(out, c)
	}

	var less func(a, b *models.Course) bool
	switch q.Sort {
	case SortPriceLow:
		less = func(a, b *models.Course) bool { return a.Price < b.Price }
	case SortPriceHigh:
		less = func(a, b *models.Course) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b *models.Course) bool { return AverageRating(a.Ratings) > AverageRating(b.Ratings) }
	default:
		less = func(a, b *models.Course) bool { return len(a.EnrolledStudents) > len(b.EnrolledStudents) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

// Find returns the course with the given id from a catalog snapshot.
func Find(courses []models.Course, id string) (*models.Course, bool) {
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], true
		}
	}
	return nil, false
}
