package models

import "time"

type EnrolledStudent struct {
	Student      StudentRef `json:"student"`
	CourseTitle  string     `json:"courseTitle"`
	PurchaseDate time.Time  `json:"purchaseDate"`
}

type StudentRef struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type DashboardEnrollment struct {
	CourseTitle string     `json:"courseTitle"`
	Student     StudentRef `json:"student"`
}

type DashboardData struct {
	TotalEarnings        float64               `json:"totalEarnings"`
	TotalCourses         int                   `json:"totalCourses"`
	EnrolledStudentsData []DashboardEnrollment `json:"enrolledStudentsData"`
}

// EducatorCourse is a course row on the educator's "My courses" page.
type EducatorCourse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Thumbnail       string    `json:"thumbnail"`
	Students        int       `json:"students"`
	DiscountedPrice float64   `json:"discountedPrice"`
	Earnings        float64   `json:"earnings"`
	PublishedOn     time.Time `json:"publishedOn"`
}
