package session

// Roles, as returned by the backend in the user record.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

var AllRoles = []string{RoleStudent, RoleInstructor, RoleAdmin}

// User is the client's copy of the authenticated user record. It is hydrated from
// login/registration responses and persisted alongside the bearer token; the backend
// remains the source of truth.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

func (u *User) HasRole(role string) bool {
	return u != nil && role != "" && u.Role == role
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

func (u *User) IsInstructor() bool {
	return u.HasRole(RoleInstructor)
}

func (u *User) IsStudent() bool {
	return u.HasRole(RoleStudent)
}
