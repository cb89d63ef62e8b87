package dto

import "github.com/gradlink/alumni/internal/app/models"

// RegisterRequest represents a user registration request. The role cannot be changed later.
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email,max=254" example:"jane@alumni.edu"`
	Username  string          `json:"username" binding:"required,min=3,max=150,alphanum" example:"jane"`
	Password  string          `json:"password" binding:"required,min=8,max=72" example:"s3cretpassw0rd"`
	FirstName string          `json:"firstName" binding:"required,max=150" example:"Jane"`
	LastName  string          `json:"lastName" binding:"required,max=150" example:"Doe"`
	RoleType  models.RoleType `json:"roleType" binding:"required,oneof=student alumni university company" example:"alumni"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int    `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
