package auth

import (
	"context"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tilldesk/tilldesk-backend/internal/modules/user"
	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

const tokenTTL = 24 * time.Hour

type service struct {
	userRepo user.Repository
	jwtKey   []byte
}

// NewService creates a new auth service. secret signs session tokens.
func NewService(userRepo user.Repository, secret string) Service {
	return &service{userRepo: userRepo, jwtKey: []byte(secret)}
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*user.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperr.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, "", apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal("hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         user.RoleUser,
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", apperr.Validation("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", apperr.Validation("invalid credentials")
	}
	return s.issueToken(u.ID)
}

func (s *service) ParseToken(tokenString string) (uuid.UUID, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Validation("unexpected signing method")
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperr.Validation("invalid or expired token")
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid token subject")
	}
	return uid, nil
}

func (s *service) issueToken(userID uuid.UUID) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   userID.String(),
		ExpiresAt: time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", apperr.Internal("sign token", err)
	}
	return signed, nil
}
