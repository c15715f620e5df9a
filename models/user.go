// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User model
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// IsAdmin reports whether the user carries the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Caller is the identity resolved once per request by the session guard.
// A nil *Caller means the request is anonymous.
type Caller struct {
	ID   primitive.ObjectID
	Role string
}

// IsAdmin reports whether the caller carries the Admin role.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// RegisterRequest is the body of POST /Account/Register
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest is the body of POST /Account/Login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRoleRequest is the body of PUT /Admin/UpdateUserRole
type UpdateUserRoleRequest struct {
	UserID  string `json:"userId" validate:"required"`
	NewRole string `json:"newRole" validate:"required,oneof=User Admin"`
}

// UserSummary is the admin-facing projection of a user record.
type UserSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Role      string             `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}
