package out

import (
	"context"
	"fmt"
	"strings"

	"mih/internal/modules/daily/domain"
	dailyout "mih/internal/modules/daily/port/out"
	plandomain "mih/internal/modules/plan/domain"
	"mih/internal/platform/ai"
)

const nextActionSystem = "You are a supportive coach. Suggest ONE concrete 15-30 minute action for today. " +
	"Reply with the action text only, a single line, no preamble."

// AINextActionGenerator asks the model for today's action for one focus
// area, with yesterday's outcomes as context.
type AINextActionGenerator struct {
	client *ai.ChatClient
}

func NewAINextActionGenerator(client *ai.ChatClient) dailyout.NextActionGenerator {
	return &AINextActionGenerator{client: client}
}

func (g *AINextActionGenerator) NextAction(ctx context.Context, area plandomain.FocusArea, yesterday []domain.Action, dayIndex int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Focus area: %s\n", area.Name)
	if area.WeeklyFocus != "" {
		fmt.Fprintf(&b, "This week's focus: %s\n", area.WeeklyFocus)
	}
	if area.MonthlyDirection != "" {
		fmt.Fprintf(&b, "This month's direction: %s\n", area.MonthlyDirection)
	}
	fmt.Fprintf(&b, "Day %d of this plan.\n", dayIndex+1)

	var done, missed []string
	for _, a := range yesterday {
		if a.FocusArea != area.Name {
			continue
		}
		if a.Completed {
			done = append(done, a.Text)
		} else {
			missed = append(missed, a.Text)
		}
	}
	if len(done) > 0 {
		fmt.Fprintf(&b, "Completed yesterday: %s\n", strings.Join(done, "; "))
	}
	if len(missed) > 0 {
		fmt.Fprintf(&b, "Not completed yesterday: %s\n", strings.Join(missed, "; "))
	}
	b.WriteString("What is ONE small concrete action for today?")

	content, err := g.client.Complete(ctx, nextActionSystem, b.String(), 0.6)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(content)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	line = strings.Trim(line, `"`)
	return line, nil
}
