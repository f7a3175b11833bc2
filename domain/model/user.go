package model

import "time"

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

type User struct {
	ClerkID         string    `json:"clerk_id"`
	Email           string    `json:"email"`
	Username        *string   `json:"username"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	ProfileImageURL *string   `json:"profile_image_url"`
	Role            UserRole  `json:"role"`
	IsActive        bool      `json:"is_active"`
	IsBanned        bool      `json:"is_banned"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Identity is the verified caller attached to a request by the auth middleware.
type Identity struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
	Email    *string `json:"email"`
	IsAdmin  bool    `json:"is_admin"`
}
