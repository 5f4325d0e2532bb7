package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"mih/internal/modules/auth/domain"
	authout "mih/internal/modules/auth/port/out"
	"mih/internal/platform/clock"
	apperrors "mih/internal/platform/errors"
	"mih/internal/platform/id"
)

const minPasswordLen = 6

type AuthService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  authout.UserStore
	tokens authout.TokenCodec
}

func NewAuthService(clk clock.Clock, idGen id.Generator, store authout.UserStore, tokens authout.TokenCodec) *AuthService {
	return &AuthService{clock: clk, idGen: idGen, store: store, tokens: tokens}
}

// Signup registers a new account and returns the user plus a fresh token.
func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(email, password); err != nil {
		return domain.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           s.idGen.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user plus a fresh token.
// Unknown emails and wrong passwords both map to ErrUnauthorized so the
// response does not leak which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Identify resolves a bearer token to its user.
func (s *AuthService) Identify(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return domain.User{}, err
	}
	return s.store.UserByID(ctx, userID)
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", apperrors.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidInput, minPasswordLen)
	}
	return nil
}
