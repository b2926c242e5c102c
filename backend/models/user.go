package models

const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

// SessionUser is the profile the backend returns for the signed-in user.
type SessionUser struct {
	ID              string   `json:"_id" validate:"required"`
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Role            string   `json:"role,omitempty"`
	EnrolledCourses []string `json:"enrolledCourses"`
}

func (u *SessionUser) IsEducator() bool {
	return u != nil && u.Role == RoleEducator
}

// Identity is what the identity provider vouches for: the subject, its role
// metadata and the bearer token to forward upstream.
type Identity struct {
	Subject string
	Name    string
	Email   string
	Role    string
	Token   string
}

func (i *Identity) Present() bool {
	return i != nil && i.Subject != ""
}
