package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	authdto "mih/internal/modules/auth/dto"
	dailydto "mih/internal/modules/daily/dto"
	plandto "mih/internal/modules/plan/dto"
	progressdto "mih/internal/modules/progress/dto"
	apperrors "mih/internal/platform/errors"
)

// CredentialStore holds the single persisted bearer token.
type CredentialStore interface {
	Token() string
	Set(token string) error
	Clear() error
}

// ServerError is a non-2xx response that was neither a 401 nor a 403.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error %d", e.Status)
}

// Client wraps the REST API. Every request carries the stored bearer token
// when one exists; any 401 or 403 clears it. Errors propagate once, with no
// retry policy.
type Client struct {
	baseURL string
	httpc   *http.Client
	creds   CredentialStore
}

func NewClient(baseURL string, creds CredentialStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		creds:   creds,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// The credential is rejected; drop it no matter which call hit
		// the response.
		_ = c.creds.Clear()
		return fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, errorDetail(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Message: errorDetail(resp)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func errorDetail(resp *http.Response) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return resp.Status
	}
	if body.Detail == "" {
		return resp.Status
	}
	return body.Detail
}

func (c *Client) Signup(ctx context.Context, email, password string) (authdto.AuthResponse, error) {
	var out authdto.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", authdto.Credentials{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (authdto.AuthResponse, error) {
	var out authdto.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", authdto.Credentials{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (authdto.UserResponse, error) {
	var out authdto.UserResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

func (c *Client) Plans(ctx context.Context) ([]plandto.PlanResponse, error) {
	var out []plandto.PlanResponse
	err := c.do(ctx, http.MethodGet, "/api/plans", nil, &out)
	return out, err
}

// CurrentPlan returns nil without error when no plan is active.
func (c *Client) CurrentPlan(ctx context.Context) (*plandto.PlanResponse, error) {
	var out *plandto.PlanResponse
	err := c.do(ctx, http.MethodGet, "/api/plans/current", nil, &out)
	return out, err
}

func (c *Client) StartFresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/plans/start-fresh", nil, nil)
}

func (c *Client) DumpGoal(ctx context.Context, req plandto.DumpRequest) (plandto.DumpResponse, error) {
	var out plandto.DumpResponse
	err := c.do(ctx, http.MethodPost, "/api/goals/dump", req, &out)
	return out, err
}

func (c *Client) Today(ctx context.Context) ([]dailydto.ActionResponse, error) {
	var out []dailydto.ActionResponse
	err := c.do(ctx, http.MethodGet, "/api/daily/today", nil, &out)
	return out, err
}

func (c *Client) CheckIn(ctx context.Context, actionID string, completed bool) (dailydto.ActionResponse, error) {
	var out struct {
		Success bool                    `json:"success"`
		Action  dailydto.ActionResponse `json:"action"`
	}
	err := c.do(ctx, http.MethodPost, "/api/daily/check-in", dailydto.CheckInRequest{ActionID: actionID, Completed: completed}, &out)
	return out.Action, err
}

func (c *Client) Streak(ctx context.Context) (dailydto.StreakResponse, error) {
	var out dailydto.StreakResponse
	err := c.do(ctx, http.MethodGet, "/api/streak", nil, &out)
	return out, err
}

func (c *Client) Progress(ctx context.Context) (progressdto.ProgressResponse, error) {
	var out progressdto.ProgressResponse
	err := c.do(ctx, http.MethodGet, "/api/progress", nil, &out)
	return out, err
}

func (c *Client) WeeklySummary(ctx context.Context) (progressdto.WeeklySummaryResponse, error) {
	var out progressdto.WeeklySummaryResponse
	err := c.do(ctx, http.MethodGet, "/api/weekly-summary", nil, &out)
	return out, err
}
