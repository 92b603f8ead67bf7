package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/magnova/magnova-procure/internal/shared"
)

// Service handles registration and login.
type Service struct {
	repo   RepositoryPort
	tokens *TokenManager
}

// NewService constructs the auth service.
func NewService(repo RepositoryPort, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Email        string
	Name         string
	Organization string
	Role         string
	Password     string
}

// Register creates the account and signs the new user in, returning the
// stored user with an access token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Name == "" || len(input.Password) < 6 {
		return User{}, "", fmt.Errorf("auth: email, name and password (min 6 chars) required: %w", shared.ErrValidation)
	}
	if input.Role == "" {
		input.Role = "user"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		Organization: input.Organization,
		Role:         input.Role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}
	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Authenticate verifies credentials and issues an access token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// GetByID loads the stored user for the /me endpoint.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}
