package domain

// FallbackFocusAreas is the plan used when generation is unavailable or
// returns nothing usable. Two areas, both immediately actionable.
func FallbackFocusAreas() []FocusArea {
	return []FocusArea{
		{
			Name:             "Clarity",
			Description:      "Turn your dump into a few clear priorities you can actually act on.",
			SuccessLooksLike: "You can explain your top 3 goals and your next step for each.",
			Outcomes:         []string{"Pick your top 3 priorities", "Define a next step for each"},
			MonthlyDirection: "Clarify what matters most and remove distractions.",
			WeeklyFocus:      "Choose one priority to focus on this week.",
			DailyAction:      "Write your top 3 goals as bullets and circle the #1 (5-10 min).",
		},
		{
			Name:             "Momentum",
			Description:      "Build consistency with tiny daily actions (no guilt, just progress).",
			SuccessLooksLike: "You complete at least 1 small action per day most days.",
			Outcomes:         []string{"Set a 15-minute daily habit", "Track daily check-ins"},
			MonthlyDirection: "Make progress feel easy and repeatable.",
			WeeklyFocus:      "Do the smallest version of the work daily.",
			DailyAction:      "Set a 15-minute timer and do the smallest next step for your #1 goal.",
		},
	}
}
