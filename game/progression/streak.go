package progression

import (
	"time"

	"github.com/veyralune/lifequest/model"
)

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole calendar days from a to b (b after a).
// The comparison is on calendar dates, not elapsed hours, so DST
// transitions (23h or 25h days) never shift the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// AdvanceStreak applies one activity on `today` to the streak and reports
// whether the count changed. Logging twice on the same day is a no-op, so
// reprocessing a day's activity can never inflate the count.
func AdvanceStreak(s model.Streak, today time.Time) (model.Streak, bool) {
	day := dateOnly(today)

	if s.LastActivityDate != nil {
		switch gap := daysBetween(*s.LastActivityDate, day); {
		case gap <= 0:
			return s, false // already counted today
		case gap == 1:
			s.CurrentCount++
		default:
			s.CurrentCount = 1 // broken, restart
		}
	} else {
		s.CurrentCount = 1
	}

	if s.CurrentCount > s.LongestCount {
		s.LongestCount = s.CurrentCount
	}
	s.LastActivityDate = &day
	return s, true
}

// SpendFreeze consumes one freeze token, advancing LastActivityDate to
// today without touching the count. The next real activity then continues
// the streak as if no day was missed.
func SpendFreeze(s model.Streak, today time.Time) (model.Streak, error) {
	if s.FreezeCount <= 0 {
		return s, ErrNoFreezeAvailable
	}
	day := dateOnly(today)
	s.FreezeCount--
	s.LastActivityDate = &day
	return s, nil
}

// StreakAtRisk reports whether the streak is intact from yesterday but
// has not been fed today. Informational only; nothing stores this flag.
func StreakAtRisk(s model.Streak, today time.Time) bool {
	if s.LastActivityDate == nil || s.CurrentCount == 0 {
		return false
	}
	return daysBetween(*s.LastActivityDate, dateOnly(today)) == 1
}

// streakMilestones are the counts worth announcing.
var streakMilestones = []int{7, 30, 100}

// isStreakMilestone reports whether count just hit a milestone.
func isStreakMilestone(count int) bool {
	for _, m := range streakMilestones {
		if count == m {
			return true
		}
	}
	return false
}
