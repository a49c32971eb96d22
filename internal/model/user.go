package model

import "time"

// User roles, mirroring the users.role column.
const (
	RoleVisitor   = 1
	RoleModerator = 2
	RoleAdmin     = 3
	RoleSuperuser = 4
)

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         int       `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsModerator reports whether the user may work the moderation queue.
// Admins and superusers inherit moderator capabilities.
func (u *User) IsModerator() bool {
	return u.Role >= RoleModerator
}

// RegisterRequest is the API request body for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the API request body for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the signed token returned by register/login.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     int    `json:"role"`
}
