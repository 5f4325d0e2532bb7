package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mih/internal/bootstrap"
	plandomain "mih/internal/modules/plan/domain"
	plandto "mih/internal/modules/plan/dto"
	"mih/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "mih",
		Short:         "make it happen: goal tracking with AI daily plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.mih)")

	root.AddCommand(newTUICmd(&configDir))
	root.AddCommand(newServeCmd(&configDir))
	root.AddCommand(newSignupCmd(&configDir))
	root.AddCommand(newLoginCmd(&configDir))
	root.AddCommand(newLogoutCmd(&configDir))
	root.AddCommand(newWhoamiCmd(&configDir))
	root.AddCommand(newTodayCmd(&configDir))
	root.AddCommand(newCheckinCmd(&configDir))
	root.AddCommand(newPlansCmd(&configDir))
	root.AddCommand(newDumpCmd(&configDir))
	root.AddCommand(newProgressCmd(&configDir))
	root.AddCommand(newStreakCmd(&configDir))
	root.AddCommand(newStartFreshCmd(&configDir))
	return root
}

func loadClient(configDir string) (*bootstrap.ClientApp, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewClient(cfg), nil
}

func newTUICmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal client",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newServeCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			app, err := bootstrap.NewServer(cfg)
			if err != nil {
				return err
			}
			return bootstrap.RunServe(app)
		},
	}
}

func newSignupCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			if err := app.Session.Signup(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed up as %s\n", app.Session.User().Email)
			return nil
		},
	}
}

func newLoginCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			if err := app.Session.Login(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", app.Session.User().Email)
			return nil
		},
	}
}

func newLogoutCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			app.Session.Logout()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			app.Session.Bootstrap(context.Background())
			if !app.Session.Authenticated() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			user := app.Session.User()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
}

func newTodayCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's actions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			actions, err := app.Client.Today(context.Background())
			if err != nil {
				return err
			}
			if len(actions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing scheduled for today")
				return nil
			}
			for _, a := range actions {
				mark := "[ ]"
				if a.Completed {
					mark = "[x]"
				}
				carried := ""
				if a.RescheduledFrom != nil {
					carried = " (carried over)"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s: %s%s\n", mark, a.ID, a.FocusArea, a.Action, carried)
			}
			return nil
		},
	}
}

func newCheckinCmd(configDir *string) *cobra.Command {
	var undo bool
	checkin := &cobra.Command{
		Use:   "checkin <action-id>",
		Short: "Mark an action done (or undone with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			action, err := app.Client.CheckIn(context.Background(), args[0], !undo)
			if err != nil {
				return err
			}
			state := "done"
			if !action.Completed {
				state = "not done"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", action.Action, state)
			return nil
		},
	}
	checkin.Flags().BoolVar(&undo, "undo", false, "mark the action not done")
	return checkin
}

func newPlansCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show active focus areas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			plans, err := app.Client.Plans(context.Background())
			if err != nil {
				return err
			}
			domainPlans := make([]plandomain.Plan, 0, len(plans))
			for _, p := range plans {
				domainPlans = append(domainPlans, p.Plan())
			}
			areas := plandomain.ActiveFocusAreas(domainPlans)
			for _, area := range areas {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", area.Name)
				if area.WeeklyFocus != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  this week: %s\n", area.WeeklyFocus)
				}
			}
			if len(areas) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no active plan; run `mih dump` to create one")
			}
			return nil
		},
	}
}

func newDumpCmd(configDir *string) *cobra.Command {
	var timeline string
	var images []string
	dump := &cobra.Command{
		Use:   "dump <text>",
		Short: "Dump your goals and generate a plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			encoded := make([]string, 0, len(images))
			for _, path := range images {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read image %s: %w", path, err)
				}
				encoded = append(encoded, base64.StdEncoding.EncodeToString(raw))
			}
			resp, err := app.Client.DumpGoal(context.Background(), plandto.DumpRequest{
				Text:     strings.Join(args, " "),
				Images:   encoded,
				Timeline: timeline,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plan %s created with %d focus areas:\n", resp.PlanID, len(resp.FocusAreas))
			for _, area := range resp.FocusAreas {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", area.Name, area.DailyAction)
			}
			return nil
		},
	}
	dump.Flags().StringVar(&timeline, "timeline", "3_months", "timeline: 1_month|3_months|6_months|new_year|1_year")
	dump.Flags().StringSliceVar(&images, "image", nil, "image file to attach (repeatable)")
	return dump
}

func newProgressCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show the last 30 days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			resp, err := app.Client.Progress(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d/%d actions completed (%.1f%%)\n",
				resp.CompletedActions, resp.TotalActions, resp.CompletionRate)
			for _, a := range resp.Actions {
				mark := " "
				if a.Completed {
					mark = "x"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s: %s\n", mark, a.Date, a.FocusArea, a.Action)
			}
			return nil
		},
	}
}

func newStreakCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the completion streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			streak, err := app.Client.Streak(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "current: %d  longest: %d  total: %d\n%s\n",
				streak.CurrentStreak, streak.LongestStreak, streak.TotalCompleted, streak.Message)
			return nil
		},
	}
}

func newStartFreshCmd(configDir *string) *cobra.Command {
	var yes bool
	fresh := &cobra.Command{
		Use:   "start-fresh",
		Short: "Archive all plans and clear daily actions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("this archives every plan and deletes all daily actions; re-run with --yes")
			}
			app, err := loadClient(*configDir)
			if err != nil {
				return err
			}
			if err := app.Client.StartFresh(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "fresh start: plans archived, actions cleared")
			return nil
		},
	}
	fresh.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return fresh
}
