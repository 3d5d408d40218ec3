package models

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const TokenTypeBearer = "Bearer"

type RegisterRequest struct {
	Email     openapi_types.Email `json:"email" validate:"required,email"`
	Password  string              `json:"password" validate:"required,min=8,max=72"`
	FirstName string              `json:"first_name" validate:"max=100"`
	LastName  string              `json:"last_name" validate:"max=100"`
	Phone     string              `json:"phone" validate:"omitempty,e164"`
}

type LoginRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email openapi_types.Email `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type UpdateStatusRequest struct {
	Status AccountStatus `json:"status" validate:"required,oneof=pending_verification active inactive suspended"`
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int64     `json:"expires_in"`
	RefreshExpiresAt time.Time `json:"-"`
}

type AuthResponse struct {
	TokenPair
	Account AccountView `json:"account"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Reason string `json:"reason"`
}
