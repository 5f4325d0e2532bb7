package session

import (
	"context"
	"fmt"
	"strings"

	"mih/internal/client/api"
	authdto "mih/internal/modules/auth/dto"
	apperrors "mih/internal/platform/errors"
)

const minPasswordLen = 6

// Store tracks who is signed in. The invariant is strict: a user is present
// exactly when the persisted credential has been validated against the
// server.
type Store struct {
	client *api.Client
	creds  api.CredentialStore
	user   *authdto.UserResponse
}

func NewStore(client *api.Client, creds api.CredentialStore) *Store {
	return &Store{client: client, creds: creds}
}

// Bootstrap restores the persisted session. It never fails: any problem,
// from a missing credential to a dead server, clears the credential and
// yields an anonymous session.
func (s *Store) Bootstrap(ctx context.Context) {
	s.user = nil
	if s.creds.Token() == "" {
		return
	}
	user, err := s.client.Me(ctx)
	if err != nil {
		// Rejections were already cleared by the client wrapper; clearing
		// again is harmless.
		_ = s.creds.Clear()
		return
	}
	s.user = &user
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := validate(email, password); err != nil {
		return err
	}
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(resp)
}

func (s *Store) Signup(ctx context.Context, email, password string) error {
	if err := validate(email, password); err != nil {
		return err
	}
	resp, err := s.client.Signup(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(resp)
}

// establish persists the token first; identity is only set once the
// credential is durably stored.
func (s *Store) establish(resp authdto.AuthResponse) error {
	if err := s.creds.Set(resp.Token); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	user := resp.User
	s.user = &user
	return nil
}

// Logout drops the credential and identity. Safe to call repeatedly.
func (s *Store) Logout() {
	_ = s.creds.Clear()
	s.user = nil
}

func (s *Store) Authenticated() bool { return s.user != nil }

func (s *Store) User() *authdto.UserResponse { return s.user }

func validate(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidInput, minPasswordLen)
	}
	return nil
}
