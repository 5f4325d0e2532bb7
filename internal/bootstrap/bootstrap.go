package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mih/internal/client/api"
	"mih/internal/client/session"
	authadapter "mih/internal/modules/auth/adapter/out"
	authservice "mih/internal/modules/auth/service"
	dailyadapter "mih/internal/modules/daily/adapter/out"
	dailyout "mih/internal/modules/daily/port/out"
	dailyservice "mih/internal/modules/daily/service"
	planadapter "mih/internal/modules/plan/adapter/out"
	planout "mih/internal/modules/plan/port/out"
	planservice "mih/internal/modules/plan/service"
	progressservice "mih/internal/modules/progress/service"
	"mih/internal/platform/ai"
	"mih/internal/platform/clock"
	"mih/internal/platform/config"
	"mih/internal/platform/id"
	"mih/internal/platform/sqlite"
	"mih/internal/server"
	uiapp "mih/internal/ui/app"
)

// ServerApp is the fully wired backend.
type ServerApp struct {
	Config   config.Config
	Auth     *authservice.AuthService
	Plans    *planservice.PlanService
	Daily    *dailyservice.DailyService
	Progress *progressservice.ProgressService
	Log      *slog.Logger
}

// NewServer wires stores, services, and generators against the configured
// database. Without an AI key the generators stay nil and every service
// falls back to its canned output.
func NewServer(cfg config.Config) (*ServerApp, error) {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	clk := clock.SystemClock{}
	ids := &id.UUID{}

	db, err := sqlite.Open(cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	users, err := authadapter.NewSQLiteUserStore(db)
	if err != nil {
		return nil, fmt.Errorf("new user store: %w", err)
	}
	planStore, err := planadapter.NewSQLitePlanStore(db)
	if err != nil {
		return nil, fmt.Errorf("new plan store: %w", err)
	}
	actionStore, err := dailyadapter.NewSQLiteActionStore(db)
	if err != nil {
		return nil, fmt.Errorf("new action store: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Warn("unknown timezone, using UTC", "timezone", cfg.Server.Timezone)
		loc = time.UTC
	}

	var planGen planout.Generator
	var nextGen dailyout.NextActionGenerator
	chat := ai.NewChatClient(cfg.Server.AI.APIKey, cfg.Server.AI.BaseURL, cfg.Server.AI.Model)
	if chat.Configured() {
		planGen = planadapter.NewAIPlanGenerator(chat)
		nextGen = dailyadapter.NewAINextActionGenerator(chat)
	} else {
		log.Warn("no AI key configured, using fallback generation")
	}

	auth := authservice.NewAuthService(clk, ids, users,
		authadapter.NewJWTCodec(cfg.Server.JWTSecret, cfg.Server.TokenTTLDays, clk))
	plans := planservice.NewPlanService(clk, ids, planStore, planStore, planGen, log)
	daily := dailyservice.NewDailyService(clk, ids, actionStore, planStore, nextGen,
		loc, cfg.Server.RolloverHour, cfg.Server.AI.MaxConcurrency, log)
	progress := progressservice.NewProgressService(clk, actionStore, loc, cfg.Server.RolloverHour)

	return &ServerApp{
		Config:   cfg,
		Auth:     auth,
		Plans:    plans,
		Daily:    daily,
		Progress: progress,
		Log:      log,
	}, nil
}

// RunServe blocks serving the API.
func RunServe(app *ServerApp) error {
	srv := server.New(app.Auth, app.Plans, app.Daily, app.Progress, app.Log)
	app.Log.Info("listening", "addr", app.Config.Server.Addr)
	return http.ListenAndServe(app.Config.Server.Addr, srv.Router())
}

// ClientApp is the wired client side: REST client plus session store.
type ClientApp struct {
	Config  config.Config
	Client  *api.Client
	Session *session.Store
}

func NewClient(cfg config.Config) *ClientApp {
	creds := session.NewFileCredentialStore(cfg.CredentialsPath())
	client := api.NewClient(cfg.BaseURL, creds)
	return &ClientApp{
		Config:  cfg,
		Client:  client,
		Session: session.NewStore(client, creds),
	}
}

// RunTUI restores the session and runs the terminal client.
func RunTUI(app *ClientApp) error {
	app.Session.Bootstrap(context.Background())
	model := uiapp.NewModel(app.Client, app.Session)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
