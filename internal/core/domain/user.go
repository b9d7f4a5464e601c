package domain

import "strings"

// Role is the coarse authorization category carried by an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalises a role string coming from the upstream API or a token
// claim. Unknown values are returned as-is so validation can reject them.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// IsAdmin reports whether the role grants access to the admin area.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Credential is the opaque bearer token handed out at login.
type Credential string

// UserIdentity is the last-known snapshot of the signed-in user.
type UserIdentity struct {
	Name  string `json:"name"  bson:"name"  validate:"required"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone" bson:"phone"`
	Role  Role   `json:"role"  bson:"role"  validate:"required,oneof=USER ADMIN"`
}

// IsAdmin is nil-safe: a missing identity is never an administrator.
func (u *UserIdentity) IsAdmin() bool {
	return u != nil && u.Role.IsAdmin()
}
