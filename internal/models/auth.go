package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token    string    `json:"token"`
	User     *User     `json:"user"`
	IssuedAt time.Time `json:"issuedAt"`
}

// RegisterRequest holds the registration payload. Completing
// registration never establishes a session; the student logs in
// afterwards with the same credentials.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"fullName" validate:"required"`
	Faculty     string `json:"faculty" validate:"required"`
	Course      string `json:"course" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// RegisterResponse acknowledges a successful registration.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
