package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role values a user account can hold. The single seeded admin account is the
// protected account: no mutating operation may target it.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the only persisted entity. The Password field always holds a bcrypt
// hash, never plaintext, and is excluded from JSON serialization.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"default:'user'" json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProjection is the public-safe view of a user returned by every endpoint.
type UserProjection struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Projection returns the public-safe view of the user.
func (u *User) Projection() UserProjection {
	return UserProjection{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// IsProtected reports whether the user is the protected admin account.
func (u *User) IsProtected() bool {
	return u.Role == RoleAdmin
}

// HashPassword replaces the plaintext Password with its bcrypt hash.
func (u *User) HashPassword() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Every email entering the system goes through this before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
