package domain

// Timelines a goal dump may target. Fixed set; the server rejects anything
// else and the intake form only offers these.
const (
	TimelineOneMonth    = "1_month"
	TimelineThreeMonths = "3_months"
	TimelineSixMonths   = "6_months"
	TimelineNewYear     = "new_year"
	TimelineOneYear     = "1_year"
)

var Timelines = []string{
	TimelineOneMonth,
	TimelineThreeMonths,
	TimelineSixMonths,
	TimelineNewYear,
	TimelineOneYear,
}

func ValidTimeline(timeline string) bool {
	for _, t := range Timelines {
		if t == timeline {
			return true
		}
	}
	return false
}

var timelineContexts = map[string]string{
	TimelineOneMonth:    "They want to achieve this in 1 month. Break it into weekly milestones.",
	TimelineThreeMonths: "They have 3 months. Create sustainable monthly phases.",
	TimelineSixMonths:   "They have 6 months. Build gradually with clear monthly themes.",
	TimelineOneYear:     "They have a year. Create quarterly milestones with monthly focuses.",
	TimelineNewYear:     "New Year's resolution. Start in January with quarterly check-ins.",
}

// TimelineContext phrases the timeline for the generation prompt.
func TimelineContext(timeline string) string {
	if ctx, ok := timelineContexts[timeline]; ok {
		return ctx
	}
	return "Create a balanced plan based on goal complexity."
}
