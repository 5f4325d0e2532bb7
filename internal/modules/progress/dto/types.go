package dto

import (
	dailydomain "mih/internal/modules/daily/domain"
	dailydto "mih/internal/modules/daily/dto"
	"mih/internal/modules/progress/domain"
)

type ProgressResponse struct {
	Actions          []dailydto.ActionResponse `json:"actions"`
	TotalActions     int                       `json:"total_actions"`
	CompletedActions int                       `json:"completed_actions"`
	CompletionRate   float64                   `json:"completion_rate"`
}

func ProgressResponseFrom(actions []dailydomain.Action, totals domain.HistoryTotals) ProgressResponse {
	return ProgressResponse{
		Actions:          dailydto.ActionResponsesFrom(actions),
		TotalActions:     totals.TotalActions,
		CompletedActions: totals.CompletedActions,
		CompletionRate:   totals.CompletionRate,
	}
}

type FocusAreaProgress struct {
	Name      string  `json:"name"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

type WeeklySummaryResponse struct {
	WeekStart          string              `json:"week_start"`
	WeekEnd            string              `json:"week_end"`
	TotalActions       int                 `json:"total_actions"`
	CompletedActions   int                 `json:"completed_actions"`
	CompletionRate     float64             `json:"completion_rate"`
	FocusAreasProgress []FocusAreaProgress `json:"focus_areas_progress"`
	Wins               []string            `json:"wins"`
	MomentumMessage    string              `json:"momentum_message"`
}

func WeeklySummaryResponseFrom(s domain.WeeklySummary) WeeklySummaryResponse {
	areas := make([]FocusAreaProgress, 0, len(s.FocusAreasProgress))
	for _, p := range s.FocusAreasProgress {
		areas = append(areas, FocusAreaProgress(p))
	}
	wins := s.Wins
	if wins == nil {
		wins = []string{}
	}
	return WeeklySummaryResponse{
		WeekStart:          s.WeekStart.Format(dailydomain.DayFormat),
		WeekEnd:            s.WeekEnd.Format(dailydomain.DayFormat),
		TotalActions:       s.TotalActions,
		CompletedActions:   s.CompletedActions,
		CompletionRate:     s.CompletionRate,
		FocusAreasProgress: areas,
		Wins:               wins,
		MomentumMessage:    s.MomentumMessage,
	}
}
