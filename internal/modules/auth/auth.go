package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/tilldesk/tilldesk-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (uuid.UUID, error)
}

// SignUpRequest is the payload for registering a new account.
type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
