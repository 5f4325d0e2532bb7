package domain

import "time"

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// FocusArea is one thematic area of a generated plan. Every field except
// Name is optional; renderers skip what is absent.
type FocusArea struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	SuccessLooksLike string   `json:"success_looks_like,omitempty"`
	Outcomes         []string `json:"outcomes,omitempty"`
	MonthlyDirection string   `json:"monthly_direction,omitempty"`
	WeeklyFocus      string   `json:"weekly_focus,omitempty"`
	DailyAction      string   `json:"daily_action,omitempty"`
}

type Plan struct {
	ID         string
	UserID     string
	GoalID     string
	FocusAreas []FocusArea
	Timeline   string
	Status     string
	CreatedAt  time.Time
}

// Active reports whether the plan surfaces in aggregated views. A missing
// status counts as active; only an explicit archive hides a plan.
func (p Plan) Active() bool {
	return p.Status == "" || p.Status == StatusActive
}

// ActiveFocusAreas flattens the focus areas of every active plan, preserving
// plan order and within-plan order.
func ActiveFocusAreas(plans []Plan) []FocusArea {
	var areas []FocusArea
	for _, p := range plans {
		if !p.Active() {
			continue
		}
		areas = append(areas, p.FocusAreas...)
	}
	return areas
}

// Goal is the raw free-form dump a plan was generated from.
type Goal struct {
	ID        string
	UserID    string
	RawInput  string
	Images    []string
	Timeline  string
	CreatedAt time.Time
}
