package models

import "github.com/golang-jwt/jwt/v5"

type UserRole string

const (
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

// AnonymousActor is recorded when staff auth is disabled.
const AnonymousActor = "anonymous"

// StaffClaims are carried by tokens issued from /auth/login.
type StaffClaims struct {
	jwt.RegisteredClaims
	Role UserRole `json:"role"`
}

// StaffToken is the result of a successful staff login.
type StaffToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
