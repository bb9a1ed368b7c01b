package models

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleUnknown = ""
)

// Credentials structure for login request
type Credentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Registration carries the register form. The password rules are checked
// client-side before anything is sent.
type Registration struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=8,haslower,hasupper,hasdigit,hasspecial"`
}

// User is the backend's view of an account. Role is "admin" or "user".
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// OppositeRole is the role a toggle action moves the user to.
func (u User) OppositeRole() string {
	if u.Role == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// ProfileUpdate is the profile edit form; an empty password keeps the current one.
type ProfileUpdate struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password,omitempty" form:"password" binding:"omitempty,min=8"`
}

type RoleUpdate struct {
	Role string `json:"role"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type DashboardResponse struct {
	Message string `json:"message"`
}
