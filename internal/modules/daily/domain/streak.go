package domain

import (
	"fmt"
	"sort"
	"time"
)

type Streak struct {
	CurrentStreak  int
	LongestStreak  int
	TotalCompleted int
	Message        string
}

// ComputeStreak derives streak stats from the days on which actions were
// completed. completedDays may contain duplicates (one entry per completed
// action); TotalCompleted counts all of them, the streaks count unique days.
func ComputeStreak(completedDays []time.Time, today time.Time) Streak {
	if len(completedDays) == 0 {
		return Streak{Message: "Start your first action to begin your journey!"}
	}

	uniq := make(map[time.Time]bool, len(completedDays))
	for _, d := range completedDays {
		uniq[d] = true
	}
	days := make([]time.Time, 0, len(uniq))
	for d := range uniq {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	current := 0
	for i, d := range days {
		if d.Equal(today.AddDate(0, 0, -i)) {
			current++
		} else {
			break
		}
	}

	longest := 1
	run := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i].Sub(days[i+1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	if current > longest {
		longest = current
	}

	return Streak{
		CurrentStreak:  current,
		LongestStreak:  longest,
		TotalCompleted: len(completedDays),
		Message:        streakMessage(current),
	}
}

func streakMessage(current int) string {
	switch {
	case current == 0:
		return "Tomorrow is a fresh start! 🌱"
	case current == 1:
		return "One day at a time! Keep going 🌟"
	case current < 7:
		return fmt.Sprintf("%d days of small steps! You're building something beautiful 🌸", current)
	case current < 30:
		return fmt.Sprintf("%d days of showing up! This is becoming who you are 💫", current)
	default:
		return fmt.Sprintf("%d days of gentle progress! You're amazing 🌈", current)
	}
}
