package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"storefront/backend/models"
)

// Course builds a two chapter course: ch1 has l1 (10m, free preview) and
// l2 (20m); ch2 has l3 (45m). 75 minutes, 3 lectures in total.
func Course(id string, price, discount float64) models.Course {
	return models.Course{
		ID:          id,
		Title:       "Course " + id,
		Description: "<p>About " + id + "</p>",
		Price:       price,
		Discount:    discount,
		Category:    "Development",
		Educator:    models.EducatorRef{ID: "edu1", Name: "Grace"},
		CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		IsPublished: true,
		Content: []models.Chapter{
			{ID: id + "-ch1", Order: 0, Title: "Basics", Content: []models.Lecture{
				{ID: id + "-l1", Order: 0, Title: "Intro", Duration: 10, URL: "https://youtu.be/dQw4w9WgXcQ", IsPreviewFree: true},
				{ID: id + "-l2", Order: 1, Title: "Setup", Duration: 20, URL: "https://youtu.be/aaaaaaaaaaa"},
			}},
			{ID: id + "-ch2", Order: 1, Title: "Deeper", Content: []models.Lecture{
				{ID: id + "-l3", Order: 0, Title: "Internals", Duration: 45, URL: "https://youtu.be/bbbbbbbbbbb"},
			}},
		},
	}
}

// Token signs an identity token the way the identity provider does.
func Token(secret string, subject, name, role string) string {
	claims := jwt.MapClaims{
		"sub":  subject,
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims["public_metadata"] = map[string]interface{}{"role": role}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}
