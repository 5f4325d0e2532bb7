package dto

import (
	"time"

	"mih/internal/modules/daily/domain"
)

// ActionResponse is the wire shape of a daily action. Date and
// rescheduled_from are plain "2006-01-02" strings.
type ActionResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	PlanID          string  `json:"plan_id"`
	FocusArea       string  `json:"focus_area"`
	Action          string  `json:"action"`
	Date            string  `json:"date"`
	Completed       bool    `json:"completed"`
	CompletedAt     *string `json:"completed_at"`
	RescheduledFrom *string `json:"rescheduled_from"`
}

func ActionResponseFrom(a domain.Action) ActionResponse {
	resp := ActionResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		PlanID:    a.PlanID,
		FocusArea: a.FocusArea,
		Action:    a.Text,
		Date:      a.Day.Format(domain.DayFormat),
		Completed: a.Completed,
	}
	if a.CompletedAt != nil {
		s := a.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	if a.RescheduledFrom != nil {
		s := a.RescheduledFrom.Format(domain.DayFormat)
		resp.RescheduledFrom = &s
	}
	return resp
}

func ActionResponsesFrom(actions []domain.Action) []ActionResponse {
	out := make([]ActionResponse, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionResponseFrom(a))
	}
	return out
}

type CheckInRequest struct {
	ActionID  string `json:"action_id"`
	Completed bool   `json:"completed"`
}

type StreakResponse struct {
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	TotalCompleted int    `json:"total_completed"`
	Message        string `json:"message"`
}

func StreakResponseFrom(s domain.Streak) StreakResponse {
	return StreakResponse(s)
}
