package domain

import "time"

// DayFormat is the wire and storage format for calendar days. Days are
// exact string keys; no timezone normalization happens past EffectiveDay.
const DayFormat = "2006-01-02"

// Action is one concrete thing to do on one day. Its ID stays stable
// across completion toggles.
type Action struct {
	ID              string
	UserID          string
	PlanID          string
	FocusArea       string
	Text            string
	Day             time.Time
	Completed       bool
	CompletedAt     *time.Time
	RescheduledFrom *time.Time
}

// Fresh reports whether the action was generated for its day rather than
// carried over from an earlier one.
func (a Action) Fresh() bool {
	return a.RescheduledFrom == nil
}

// EffectiveDay maps an instant to the user's calendar day. The day flips at
// rolloverHour in loc; before that hour it still counts as the previous day.
func EffectiveDay(now time.Time, loc *time.Location, rolloverHour int) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if local.Hour() < rolloverHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// CarryOver builds today's copies of yesterday's incomplete actions,
// skipping any (plan, focus area, text) triple already carried. IDs are
// assigned by the caller.
func CarryOver(incomplete []Action, today, yesterday time.Time, existing []Action) []Action {
	type key struct{ plan, focus, text string }
	seen := make(map[key]bool, len(existing))
	for _, a := range existing {
		seen[key{a.PlanID, a.FocusArea, a.Text}] = true
	}

	var carried []Action
	for _, a := range incomplete {
		k := key{a.PlanID, a.FocusArea, a.Text}
		if seen[k] {
			continue
		}
		seen[k] = true
		from := yesterday
		carried = append(carried, Action{
			UserID:          a.UserID,
			PlanID:          a.PlanID,
			FocusArea:       a.FocusArea,
			Text:            a.Text,
			Day:             today,
			RescheduledFrom: &from,
		})
	}
	return carried
}
