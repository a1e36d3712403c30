package alarm

import "time"

// weeklyScanLimit caps the forward day scan for weekly patterns.
const weeklyScanLimit = 14

// Next computes the trigger time following current for the given pattern.
// The hour and minute are preserved; only the date component moves.
// ok is false when the pattern is terminal and the caller must delete the
// reservation instead of rescheduling it.
func Next(current time.Time, pattern RepeatPattern, days []time.Weekday) (next time.Time, ok bool) {
	switch pattern {
	case RepeatDaily:
		return current.AddDate(0, 0, 1), true
	case RepeatBiweekly:
		return current.AddDate(0, 0, 14), true
	case RepeatTriweekly:
		return current.AddDate(0, 0, 21), true
	case RepeatFourweekly:
		return current.AddDate(0, 0, 28), true
	case RepeatWeekly:
		for add := 1; add <= weeklyScanLimit; add++ {
			cand := current.AddDate(0, 0, add)
			if containsWeekday(days, cand.Weekday()) {
				return cand, true
			}
		}
		// Unreachable through the controller, which rejects weekly
		// reservations with an empty day set before persisting them.
		return current.AddDate(0, 0, 1), true
	default:
		return time.Time{}, false
	}
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}
