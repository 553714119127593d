package models

import (
	"slices"
	"time"
)

// Role is a user's authorization role.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return slices.Contains(Roles, r) }

// User represents an account. Password holds the bcrypt hash and is never
// returned to clients; see dto.NewUserResponse.
type User struct {
	ID                   string     `json:"_id" bson:"_id"`
	Name                 string     `json:"name" bson:"name"`
	Email                string     `json:"email" bson:"email"`
	Photo                string     `json:"photo" bson:"photo"`
	Role                 Role       `json:"role" bson:"role"`
	Password             string     `json:"password" bson:"password"`
	PasswordChangedAt    *time.Time `json:"passwordChangedAt,omitempty" bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string     `json:"passwordResetToken,omitempty" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time `json:"passwordResetExpires,omitempty" bson:"passwordResetExpires,omitempty"`
	GoogleID             string     `json:"googleId,omitempty" bson:"googleId,omitempty"`
	Active               bool       `json:"active" bson:"active"`
	CreatedAt            time.Time  `json:"createdAt" bson:"createdAt"`
	V                    int        `json:"__v" bson:"__v"`
}

// DefaultPhoto is assigned to new accounts.
const DefaultPhoto = "default.jpg"

// ChangedPasswordAfter reports whether the password changed after a token
// issued at iat. Both sides are compared at whole-second precision, the
// resolution of a JWT iat claim.
func (u *User) ChangedPasswordAfter(iat time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return iat.Unix() < u.PasswordChangedAt.Unix()
}

// ClearPasswordReset drops any pending reset token.
func (u *User) ClearPasswordReset() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}

// FirstName returns the first word of the user's name.
func (u *User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}
