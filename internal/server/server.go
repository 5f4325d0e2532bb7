package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	authdomain "mih/internal/modules/auth/domain"
	authdto "mih/internal/modules/auth/dto"
	authservice "mih/internal/modules/auth/service"
	dailydto "mih/internal/modules/daily/dto"
	dailyservice "mih/internal/modules/daily/service"
	plandto "mih/internal/modules/plan/dto"
	planservice "mih/internal/modules/plan/service"
	progressdto "mih/internal/modules/progress/dto"
	progressservice "mih/internal/modules/progress/service"
	apperrors "mih/internal/platform/errors"
)

// Server adapts HTTP to the module services. All state lives in the
// services; handlers only translate.
type Server struct {
	auth     *authservice.AuthService
	plans    *planservice.PlanService
	daily    *dailyservice.DailyService
	progress *progressservice.ProgressService
	log      *slog.Logger
}

func New(auth *authservice.AuthService, plans *planservice.PlanService, daily *dailyservice.DailyService, progress *progressservice.ProgressService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{auth: auth, plans: plans, daily: daily, progress: progress, log: log}
}

// Router mounts the API. Everything except signup and login requires a
// bearer token.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireUser)
	authed.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/plans", s.handlePlans).Methods(http.MethodGet)
	authed.HandleFunc("/plans/current", s.handleCurrentPlan).Methods(http.MethodGet)
	authed.HandleFunc("/plans/start-fresh", s.handleStartFresh).Methods(http.MethodPost)
	authed.HandleFunc("/goals/dump", s.handleDumpGoal).Methods(http.MethodPost)
	authed.HandleFunc("/daily/today", s.handleToday).Methods(http.MethodGet)
	authed.HandleFunc("/daily/check-in", s.handleCheckIn).Methods(http.MethodPost)
	authed.HandleFunc("/streak", s.handleStreak).Methods(http.MethodGet)
	authed.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)
	authed.HandleFunc("/weekly-summary", s.handleWeeklySummary).Methods(http.MethodGet)

	return r
}

// ─── auth ───────────────────────────────────────────────────────────────────

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var creds authdto.Credentials
	if !s.decode(w, r, &creds) {
		return
	}
	user, token, err := s.auth.Signup(r.Context(), creds.Email, creds.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, authdto.AuthResponse{Token: token, User: authdto.UserResponseFrom(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds authdto.Credentials
	if !s.decode(w, r, &creds) {
		return
	}
	user, token, err := s.auth.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, authdto.AuthResponse{Token: token, User: authdto.UserResponseFrom(user)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, authdto.UserResponseFrom(userFrom(r)))
}

// ─── plans ──────────────────────────────────────────────────────────────────

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context(), userFrom(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]plandto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, plandto.PlanResponseFrom(p))
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) handleCurrentPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.Current(r.Context(), userFrom(r).ID)
	if errors.Is(err, apperrors.ErrNoActivePlan) {
		s.respond(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, plandto.PlanResponseFrom(plan))
}

func (s *Server) handleStartFresh(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r).ID
	// Clear before archiving. If archiving then fails, the plans are still
	// active and the next today call regenerates their actions, so an
	// archived plan is never left holding live actions; a retry finishes
	// the job.
	if err := s.daily.ClearAll(r.Context(), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.plans.Archive(r.Context(), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDumpGoal(w http.ResponseWriter, r *http.Request) {
	var req plandto.DumpRequest
	if !s.decode(w, r, &req) {
		return
	}
	user := userFrom(r)
	goal, plan, err := s.plans.DumpGoal(r.Context(), user.ID, req.Text, req.Images, req.Timeline)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.daily.SeedPlanActions(r.Context(), plan); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, plandto.DumpResponse{
		GoalID:     goal.ID,
		PlanID:     plan.ID,
		FocusAreas: plan.FocusAreas,
	})
}

// ─── daily ──────────────────────────────────────────────────────────────────

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	actions, err := s.daily.Today(r.Context(), userFrom(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, dailydto.ActionResponsesFrom(actions))
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req dailydto.CheckInRequest
	if !s.decode(w, r, &req) {
		return
	}
	action, err := s.daily.CheckIn(r.Context(), userFrom(r).ID, req.ActionID, req.Completed)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"action":  dailydto.ActionResponseFrom(action),
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.daily.Streak(r.Context(), userFrom(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, dailydto.StreakResponseFrom(streak))
}

// ─── progress ───────────────────────────────────────────────────────────────

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	actions, totals, err := s.progress.History(r.Context(), userFrom(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, progressdto.ProgressResponseFrom(actions, totals))
}

func (s *Server) handleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.progress.Weekly(r.Context(), userFrom(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, progressdto.WeeklySummaryResponseFrom(summary))
}

// ─── middleware ─────────────────────────────────────────────────────────────

type contextKey string

const userKey contextKey = "user"

func userFrom(r *http.Request) authdomain.User {
	user, _ := r.Context().Value(userKey).(authdomain.User)
	return user
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.Identify(r.Context(), token)
		if err != nil {
			s.error(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ─── helpers ────────────────────────────────────────────────────────────────

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.error(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) error(w http.ResponseWriter, status int, detail string) {
	s.respond(w, status, map[string]string{"detail": detail})
}

// fail maps domain errors onto HTTP statuses. Internal errors are logged
// with their cause but reported opaquely.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrEmailTaken):
		s.error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized):
		s.error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.error(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.error(w, http.StatusInternalServerError, "internal error")
	}
}
