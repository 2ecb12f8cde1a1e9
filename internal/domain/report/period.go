package report

import (
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Period is the granularity used to bucket time-series figures
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// IsValid checks if the period is known
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Key returns the bucket key of t for this period.
// A nil time or an unknown period yields no key.
func (p Period) Key(t *time.Time) (string, bool) {
	if t == nil || t.IsZero() {
		return "", false
	}
	switch p {
	case PeriodDaily:
		return DailyKey(*t), true
	case PeriodWeekly:
		return WeeklyKey(*t), true
	case PeriodMonthly:
		return MonthlyKey(*t), true
	}
	return "", false
}

// DailyKey formats t as YYYY-MM-DD in its own location
func DailyKey(t time.Time) string {
	return t.Format(dayLayout)
}

// MonthlyKey formats t as YYYY-MM in its own location
func MonthlyKey(t time.Time) string {
	return t.Format(monthLayout)
}

// WeekRange returns the Monday and Sunday, at midnight, of the week containing t
func WeekRange(t time.Time) (monday, sunday time.Time) {
	day := int(t.Weekday())
	if day == 0 {
		day = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	monday = start.AddDate(0, 0, -(day - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// WeeklyKey formats the week of t as MONDAY/SUNDAY
func WeeklyKey(t time.Time) string {
	monday, sunday := WeekRange(t)
	return DailyKey(monday) + "/" + DailyKey(sunday)
}

// ParseDay parses a YYYY-MM-DD string at midnight in loc
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(dayLayout, value, loc)
}
