package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mih/internal/modules/auth/domain"
	"mih/internal/modules/auth/service"
	"mih/internal/platform/clock"
	apperrors "mih/internal/platform/errors"
)

type fakeUserStore struct {
	byEmail map[string]domain.User
	byID    map[string]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]domain.User{}, byID: map[string]domain.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user domain.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return apperrors.ErrEmailTaken
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return domain.User{}, apperrors.ErrNotFound
}

func (f *fakeUserStore) UserByID(_ context.Context, id string) (domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return domain.User{}, apperrors.ErrNotFound
}

type fakeCodec struct{}

func (fakeCodec) Issue(userID string) (string, error) { return "token-" + userID, nil }
func (fakeCodec) Verify(token string) (string, error) {
	if len(token) > 6 && token[:6] == "token-" {
		return token[6:], nil
	}
	return "", apperrors.ErrUnauthorized
}

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return []string{"u-1", "u-2", "u-3"}[s.n-1]
}

func newService(store *fakeUserStore) *service.AuthService {
	clk := clock.Fixed{At: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	return service.NewAuthService(clk, &seqID{}, store, fakeCodec{})
}

func TestSignupLoginIdentifyRoundTrip(t *testing.T) {
	t.Parallel()
	store := newFakeUserStore()
	svc := newService(store)

	user, token, err := svc.Signup(context.Background(), "Jo@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "jo@example.com" {
		t.Fatalf("email must be normalized, got %s", user.Email)
	}
	if token == "" {
		t.Fatalf("signup must issue a token")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password must not be stored in the clear")
	}

	loggedIn, token2, err := svc.Login(context.Background(), "jo@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID || token2 == "" {
		t.Fatalf("login must return the same user with a token")
	}

	identified, err := svc.Identify(context.Background(), token)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if identified.ID != user.ID {
		t.Fatalf("identify must resolve the signup user, got %s", identified.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()
	svc := newService(newFakeUserStore())

	if _, _, err := svc.Signup(context.Background(), "not-an-email", "hunter22"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("bad email: expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), "jo@example.com", "short"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("short password: expected ErrInvalidInput, got %v", err)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newService(newFakeUserStore())
	if _, _, err := svc.Signup(context.Background(), "jo@example.com", "hunter22"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), "jo@example.com", "different8"); !errors.Is(err, apperrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginDoesNotDistinguishUnknownEmailFromWrongPassword(t *testing.T) {
	t.Parallel()
	svc := newService(newFakeUserStore())
	if _, _, err := svc.Signup(context.Background(), "jo@example.com", "hunter22"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "hunter22")
	_, _, errWrong := svc.Login(context.Background(), "jo@example.com", "wrongpass")
	if !errors.Is(errUnknown, apperrors.ErrUnauthorized) || !errors.Is(errWrong, apperrors.ErrUnauthorized) {
		t.Fatalf("both failures must be ErrUnauthorized, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("failure messages must not leak which part was wrong")
	}
}

func TestIdentifyRejectsBadToken(t *testing.T) {
	t.Parallel()
	svc := newService(newFakeUserStore())
	if _, err := svc.Identify(context.Background(), "garbage"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
