package out

import (
	"context"
	"fmt"

	"mih/internal/modules/plan/domain"
	planout "mih/internal/modules/plan/port/out"
	"mih/internal/platform/ai"
)

const plannerSystem = "You are a thoughtful life coach who helps people translate dreams into actionable plans. " +
	"Be warm, encouraging, and practical. Always provide concrete, specific actions."

const plannerPromptFormat = `Analyze this person's goals and aspirations:

%s

Timeline: %s

Extract 2-4 main focus areas.

For each focus area, provide:
name, description, success_looks_like, outcomes (2-3),
monthly_direction, weekly_focus, daily_action (ONE concrete action for today, 15-30 min)

Respond ONLY in JSON:
{
 "focus_areas": [
   {
     "name": "...",
     "description": "...",
     "success_looks_like": "...",
     "outcomes": ["...", "..."],
     "monthly_direction": "...",
     "weekly_focus": "...",
     "daily_action": "..."
   }
 ]
}`

// AIPlanGenerator extracts focus areas from a goal dump with one chat
// completion call.
type AIPlanGenerator struct {
	client *ai.ChatClient
}

func NewAIPlanGenerator(client *ai.ChatClient) planout.Generator {
	return &AIPlanGenerator{client: client}
}

func (g *AIPlanGenerator) GeneratePlan(ctx context.Context, text string, _ []string, timeline string) ([]domain.FocusArea, error) {
	prompt := fmt.Sprintf(plannerPromptFormat, text, domain.TimelineContext(timeline))
	content, err := g.client.Complete(ctx, plannerSystem, prompt, 0.7)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		FocusAreas []domain.FocusArea `json:"focus_areas"`
	}
	if err := ai.ExtractJSONObject(content, &parsed); err != nil {
		return nil, err
	}
	return parsed.FocusAreas, nil
}
