package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles a user account can hold
const (
	RoleReader    = "reader"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// User represents a platform account (PostgreSQL)
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:50"`
	Password    string    `json:"-"` // bcrypt hash, never serialized
	Role        string    `json:"role" gorm:"size:20;index"`
	Bio         string    `json:"bio"`
	Picture     string    `json:"picture"`
	Contact     string    `json:"contact"`
	Balance     float64   `json:"balance"` // publisher running balance, credited by verified payments
	FirebaseUID string    `json:"firebase_uid,omitempty" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCompact is the trimmed user shape embedded in enriched responses
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Picture  string `json:"picture"`
}

// ToCompact returns the compact representation of a user
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Role: u.Role, Picture: u.Picture}
}

// Subscription links a reader to a publisher they follow (PostgreSQL)
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubscriberID uint      `json:"subscriber_id" gorm:"index;uniqueIndex:idx_subscriber_publisher"`
	PublisherID  uint      `json:"publisher_id" gorm:"index;uniqueIndex:idx_subscriber_publisher"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest defines the request body for account registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=reader publisher admin"`
}

// LoginRequest defines the request body for credential login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	Bio     string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Picture string `json:"picture,omitempty"`
	Contact string `json:"contact,omitempty" validate:"omitempty,max=100"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
