package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"mih/internal/client/api"
	authdto "mih/internal/modules/auth/dto"
	apperrors "mih/internal/platform/errors"
)

func newAuthServer(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "invalid or expired token"})
				return
			}
			json.NewEncoder(w).Encode(authdto.UserResponse{ID: "u1", Email: "me@example.com"})
		case "/api/auth/login", "/api/auth/signup":
			json.NewEncoder(w).Encode(authdto.AuthResponse{
				Token: validToken,
				User:  authdto.UserResponse{ID: "u1", Email: "me@example.com"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBootstrapRestoresValidCredential(t *testing.T) {
	t.Parallel()

	srv := newAuthServer(t, "good-token")
	creds := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	if err := creds.Set("good-token"); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	store := NewStore(api.NewClient(srv.URL, creds), creds)

	store.Bootstrap(context.Background())
	if !store.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if store.User().Email != "me@example.com" {
		t.Fatalf("user = %+v", store.User())
	}
}

func TestBootstrapRejectedCredentialGoesAnonymousAndClears(t *testing.T) {
	t.Parallel()

	srv := newAuthServer(t, "good-token")
	creds := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	if err := creds.Set("stale-token"); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	store := NewStore(api.NewClient(srv.URL, creds), creds)

	store.Bootstrap(context.Background())
	if store.Authenticated() {
		t.Fatal("expected anonymous session")
	}
	if creds.Token() != "" {
		t.Fatalf("rejected credential not cleared: %q", creds.Token())
	}
}

func TestBootstrapUnreachableServerGoesAnonymousAndClears(t *testing.T) {
	t.Parallel()

	creds := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	if err := creds.Set("maybe-fine"); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	// Nothing is listening here.
	store := NewStore(api.NewClient("http://127.0.0.1:1", creds), creds)

	store.Bootstrap(context.Background())
	if store.Authenticated() {
		t.Fatal("expected anonymous session")
	}
	if creds.Token() != "" {
		t.Fatalf("credential kept after failed validation: %q", creds.Token())
	}
}

func TestLoginPersistsBeforeIdentity(t *testing.T) {
	t.Parallel()

	srv := newAuthServer(t, "good-token")
	path := filepath.Join(t.TempDir(), "credentials")
	creds := NewFileCredentialStore(path)
	store := NewStore(api.NewClient(srv.URL, creds), creds)

	if err := store.Login(context.Background(), "me@example.com", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !store.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	// The credential survives a fresh store, proving it hit disk.
	if NewFileCredentialStore(path).Token() != "good-token" {
		t.Fatal("credential not persisted")
	}
}

func TestClientSideValidationSkipsNetwork(t *testing.T) {
	t.Parallel()

	// An unreachable client proves validation happens before any request.
	creds := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	store := NewStore(api.NewClient("http://127.0.0.1:1", creds), creds)

	if err := store.Login(context.Background(), "  ", "secret123"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank email: err = %v", err)
	}
	if err := store.Signup(context.Background(), "me@example.com", "abc"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("short password: err = %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	t.Parallel()

	srv := newAuthServer(t, "good-token")
	creds := NewFileCredentialStore(filepath.Join(t.TempDir(), "credentials"))
	store := NewStore(api.NewClient(srv.URL, creds), creds)

	if err := store.Login(context.Background(), "me@example.com", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	store.Logout()
	store.Logout()
	if store.Authenticated() || creds.Token() != "" {
		t.Fatal("logout did not clear the session")
	}
}
