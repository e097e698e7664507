package model

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// User represents a registered account.
type User struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // "-" hides from JSON output
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// FullName returns the display name used across feed, comments and like lists.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSummary is the author projection joined into posts and comments.
type UserSummary struct {
	ID        int64   `db:"id"`
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	AvatarURL *string `db:"avatar_url"`
}

func (u *UserSummary) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token plus a profile summary.
type AuthResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// DefaultAvatarPath is substituted wherever a user's avatar is blank.
const DefaultAvatarPath = "/assets/images/Avatar.png"

// DefaultProfileImages is the pool a new account's avatar is picked from.
var DefaultProfileImages = []string{
	"/assets/images/card_ppl1.png",
	"/assets/images/card_ppl2.png",
	"/assets/images/card_ppl3.png",
	"/assets/images/card_ppl4.png",
	DefaultAvatarPath,
}

// ResolveAvatar returns the stored avatar or the default asset path when blank.
func ResolveAvatar(avatar *string) string {
	if avatar == nil || strings.TrimSpace(*avatar) == "" {
		return DefaultAvatarPath
	}
	return *avatar
}

// IsStrongPassword enforces the registration password policy:
// at least 8 characters with upper, lower, digit and special.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when registering with a taken email
	ErrEmailExists = errors.New("email already registered")

	// ErrWeakPassword is returned when the password fails the strength policy
	ErrWeakPassword = errors.New("password does not meet the strength policy")

	// ErrInvalidCredentials is returned on login failure. The same error covers
	// unknown email and wrong password so accounts cannot be enumerated.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
