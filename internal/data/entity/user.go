package entity

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderGithub Provider = "github"
)

type User struct {
	Base
	Email    string `db:"email"`
	FullName string `db:"fullname"`
	// PasswordHash is nil for federated accounts (google/github sign-in).
	PasswordHash           *string    `db:"password"`
	Phone                  *string    `db:"phone"`
	IsVerified             bool       `db:"is_verified"`
	VerificationToken      *string    `db:"verification_token"`
	VerificationExpiresAt  *time.Time `db:"verification_expires_at"`
	ResetPasswordToken     *string    `db:"reset_password_token"`
	ResetPasswordExpiresAt *time.Time `db:"reset_password_expires_at"`
	Provider               Provider   `db:"provider"`
	LastLogin              time.Time  `db:"last_login"`
	Role                   UserRole   `db:"role"`
}
