package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/repository"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

const invalidCredentials = "invalid username or password"

// TokenIssuer signs access tokens. *auth.JWTManager implements it.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// LoginInput holds the credentials of a login request.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

// LoginResult is a successful login.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

// IdentityService authenticates back-office users.
type IdentityService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger *slog.Logger
	cost   int
}

// NewIdentityService creates a new identity service.
func NewIdentityService(users repository.UserRepository, tokens TokenIssuer, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		users:  users,
		tokens: tokens,
		logger: logger,
		cost:   bcryptCost,
	}
}

// Login checks the credentials and issues an access token.
func (s *IdentityService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.InfoContext(ctx, "login failed", slog.String("username", input.Username))
		return nil, apperrors.Unauthorized(invalidCredentials)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// EnsureAdmin creates the admin account when it does not exist yet. An
// existing account keeps its password.
func (s *IdentityService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperrors.InvalidInput("admin username and password are required")
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("get admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}

	s.logger.InfoContext(ctx, "admin user created", slog.String("username", username))
	return nil
}
