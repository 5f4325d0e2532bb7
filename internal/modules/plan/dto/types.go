package dto

import "mih/internal/modules/plan/domain"

// DumpRequest is the goal intake payload. Images are base64-encoded file
// contents.
type DumpRequest struct {
	Text     string   `json:"text"`
	Images   []string `json:"images"`
	Timeline string   `json:"timeline"`
}

type DumpResponse struct {
	GoalID     string             `json:"goal_id"`
	PlanID     string             `json:"plan_id"`
	FocusAreas []domain.FocusArea `json:"focus_areas"`
}

type PlanResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	GoalID     string             `json:"goal_id"`
	FocusAreas []domain.FocusArea `json:"focus_areas"`
	Timeline   string             `json:"timeline"`
	Status     string             `json:"status"`
	CreatedAt  string             `json:"created_at"`
}

func PlanResponseFrom(p domain.Plan) PlanResponse {
	return PlanResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		GoalID:     p.GoalID,
		FocusAreas: p.FocusAreas,
		Timeline:   p.Timeline,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Plan converts a wire plan back to the domain shape for client-side
// derivations (active filtering, focus-area flattening).
func (r PlanResponse) Plan() domain.Plan {
	return domain.Plan{
		ID:         r.ID,
		UserID:     r.UserID,
		GoalID:     r.GoalID,
		FocusAreas: r.FocusAreas,
		Timeline:   r.Timeline,
		Status:     r.Status,
	}
}
