package domain

import (
	"fmt"
	"math"
	"time"

	dailydomain "mih/internal/modules/daily/domain"
)

type FocusAreaProgress struct {
	Name      string
	Completed int
	Total     int
	Rate      float64
}

type WeeklySummary struct {
	WeekStart          time.Time
	WeekEnd            time.Time
	TotalActions       int
	CompletedActions   int
	CompletionRate     float64
	FocusAreasProgress []FocusAreaProgress
	Wins               []string
	MomentumMessage    string
}

type HistoryTotals struct {
	TotalActions     int
	CompletedActions int
	CompletionRate   float64
}

// WeekBounds returns the Monday and Sunday enclosing today.
func WeekBounds(today time.Time) (time.Time, time.Time) {
	weekday := int(today.Weekday()+6) % 7 // Monday = 0
	start := today.AddDate(0, 0, -weekday)
	return start, start.AddDate(0, 0, 6)
}

// Summarize aggregates one week of actions. Focus areas keep first-seen
// order; wins cap at five.
func Summarize(actions []dailydomain.Action, today time.Time) WeeklySummary {
	start, end := WeekBounds(today)

	completed := 0
	order := []string{}
	byArea := map[string]*FocusAreaProgress{}
	var wins []string

	for _, a := range actions {
		p, ok := byArea[a.FocusArea]
		if !ok {
			p = &FocusAreaProgress{Name: a.FocusArea}
			byArea[a.FocusArea] = p
			order = append(order, a.FocusArea)
		}
		p.Total++
		if a.Completed {
			p.Completed++
			completed++
			if len(wins) < 5 {
				wins = append(wins, fmt.Sprintf("%s: %s", a.FocusArea, a.Text))
			}
		}
	}

	areas := make([]FocusAreaProgress, 0, len(order))
	for _, name := range order {
		p := byArea[name]
		p.Rate = rate(p.Completed, p.Total)
		areas = append(areas, *p)
	}

	total := len(actions)
	completionRate := rate(completed, total)

	return WeeklySummary{
		WeekStart:          start,
		WeekEnd:            end,
		TotalActions:       total,
		CompletedActions:   completed,
		CompletionRate:     completionRate,
		FocusAreasProgress: areas,
		Wins:               wins,
		MomentumMessage:    momentumMessage(completionRate, completed),
	}
}

// Totals aggregates a history window for the progress endpoint.
func Totals(actions []dailydomain.Action) HistoryTotals {
	completed := 0
	for _, a := range actions {
		if a.Completed {
			completed++
		}
	}
	return HistoryTotals{
		TotalActions:     len(actions),
		CompletedActions: completed,
		CompletionRate:   rate(completed, len(actions)),
	}
}

func rate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

func momentumMessage(completionRate float64, completed int) string {
	switch {
	case completionRate >= 80:
		return fmt.Sprintf("Incredible momentum this week! %d actions completed, you're moving 🚀", completed)
	case completionRate >= 60:
		return fmt.Sprintf("Solid week! %d actions done. Keep stacking wins 🌟", completed)
	case completionRate >= 40:
		return fmt.Sprintf("You showed up %d times this week. That counts 🌱", completed)
	case completionRate > 0:
		return fmt.Sprintf("%d small steps this week. Progress > perfection 💚", completed)
	default:
		return "New week, fresh start! Your goals are waiting 🌅"
	}
}
