package domain

import (
	"fmt"
	"strings"

	plandomain "mih/internal/modules/plan/domain"
)

// FallbackNextAction picks today's action for a focus area without AI help.
// Variants rotate by day index so consecutive days do not repeat, and the
// text leans on the area's own weekly or monthly guidance.
func FallbackNextAction(area plandomain.FocusArea, dayIndex int) string {
	name := strings.TrimSpace(area.Name)
	if name == "" {
		name = "Focus"
	}
	base := strings.TrimSpace(area.WeeklyFocus)
	if base == "" {
		base = strings.TrimSpace(area.MonthlyDirection)
	}
	if base == "" {
		base = "Move this forward with a small concrete step."
	}

	variants := []string{
		fmt.Sprintf("Do a 15-30 min micro-step toward: %s", base),
		fmt.Sprintf("Make it real: produce a tiny deliverable toward: %s", base),
		fmt.Sprintf("Remove one blocker for: %s (list 3 sub-steps, then do the first)", base),
		fmt.Sprintf("Ship something small today for: %s", base),
		fmt.Sprintf("Review + adjust: what did you learn about %s? Then choose the next tiny step.", name),
	}
	if dayIndex < 0 {
		dayIndex = 0
	}
	return variants[dayIndex%len(variants)]
}
