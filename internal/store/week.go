package store

import (
	"time"

	"github.com/tbourn/rocketmentor/internal/domain"
)

// WeekStart returns the Monday 00:00 UTC of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TodayColumn maps t to its board column. Weekends show in the friday
// column of the same ISO week.
func TodayColumn(t time.Time) domain.DayOfWeek {
	switch t.UTC().Weekday() {
	case time.Monday:
		return domain.Monday
	case time.Tuesday:
		return domain.Tuesday
	case time.Wednesday:
		return domain.Wednesday
	case time.Thursday:
		return domain.Thursday
	default:
		return domain.Friday
	}
}

// CurrentWeekPlan returns the plan whose week contains now.
func CurrentWeekPlan(s State, now time.Time) (domain.WeekPlan, bool) {
	start := WeekStart(now)
	for _, wp := range s.WeekPlans {
		if WeekStart(wp.WeekStartDate).Equal(start) {
			return wp, true
		}
	}
	return domain.WeekPlan{}, false
}

// RealCards drops sample cards.
func RealCards(wp domain.WeekPlan) []domain.KanbanCard {
	out := make([]domain.KanbanCard, 0, len(wp.Cards))
	for _, c := range wp.Cards {
		if !c.IsSample {
			out = append(out, c)
		}
	}
	return out
}
