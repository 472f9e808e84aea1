package gamification

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format. Dates are timezone-naive:
// the caller computes the string from its local clock and the server never
// reinterprets it.
const DateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// PreviousDay returns the calendar day before the given date string.
func PreviousDay(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(DateLayout), nil
}

// InclusiveDays returns the number of calendar days from start to end,
// counting both endpoints. A single-day range is 1.
func InclusiveDays(startDate, endDate string) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// ProgressPercentage returns the rounded percentage of completed days over
// a challenge's total days.
func ProgressPercentage(completedDays, totalDays int) int {
	if totalDays == 0 {
		return 0
	}
	return int(float64(completedDays)/float64(totalDays)*100 + 0.5)
}
