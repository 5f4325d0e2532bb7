package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dailydto "mih/internal/modules/daily/dto"
	apperrors "mih/internal/platform/errors"
)

type memCreds struct {
	token  string
	clears int
}

func (m *memCreds) Token() string { return m.token }
func (m *memCreds) Set(token string) error {
	m.token = token
	return nil
}
func (m *memCreds) Clear() error {
	m.token = ""
	m.clears++
	return nil
}

func TestBearerAttachedWhenPresent(t *testing.T) {
	t.Parallel()

	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]dailydto.ActionResponse{})
	}))
	defer srv.Close()

	creds := &memCreds{}
	client := NewClient(srv.URL, creds)

	if _, err := client.Today(context.Background()); err != nil {
		t.Fatalf("Today anonymous: %v", err)
	}
	creds.token = "tok-1"
	if _, err := client.Today(context.Background()); err != nil {
		t.Fatalf("Today authed: %v", err)
	}

	if got[0] != "" {
		t.Fatalf("anonymous request carried header %q", got[0])
	}
	if got[1] != "Bearer tok-1" {
		t.Fatalf("authed request header = %q", got[1])
	}
}

func TestUnauthorizedClearsCredential(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
	}))
	defer srv.Close()

	creds := &memCreds{token: "stale"}
	client := NewClient(srv.URL, creds)

	_, err := client.Streak(context.Background())
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if creds.token != "" || creds.clears != 1 {
		t.Fatalf("credential not cleared exactly once: %+v", creds)
	}
}

func TestServerErrorCarriesDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "goal text is required"})
	}))
	defer srv.Close()

	creds := &memCreds{token: "tok"}
	client := NewClient(srv.URL, creds)
	err := client.StartFresh(context.Background())

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("err = %v, want *ServerError", err)
	}
	if serverErr.Status != http.StatusBadRequest || serverErr.Message != "goal text is required" {
		t.Fatalf("server error = %+v", serverErr)
	}
	if creds.clears != 0 {
		t.Fatal("a 400 must not clear the credential")
	}
}

// Toggling the same action twice must issue two requests; nothing on the
// client may cache a check-in.
func TestRepeatedCheckInHitsServerEachTime(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req dailydto.CheckInRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"action":  dailydto.ActionResponse{ID: req.ActionID, Completed: req.Completed},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &memCreds{token: "tok"})
	for _, completed := range []bool{true, true} {
		action, err := client.CheckIn(context.Background(), "a1", completed)
		if err != nil {
			t.Fatalf("CheckIn: %v", err)
		}
		if action.ID != "a1" || !action.Completed {
			t.Fatalf("action = %+v", action)
		}
	}
	if calls != 2 {
		t.Fatalf("server saw %d calls, want 2", calls)
	}
}
