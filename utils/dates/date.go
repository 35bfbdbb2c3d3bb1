package dates

import "time"

const (
	DateFormat = "2006-01-02"
)

// LoadLocationOrUTC never fails: unknown or unavailable zones resolve to UTC.
func LoadLocationOrUTC(name string) (*time.Location, bool) {
	if name == "" {
		return time.UTC, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}

// NextDailyRun returns today's hour:00 in loc, or tomorrow's when now is at or past it.
func NextDailyRun(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !local.Before(target) {
		target = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return target
}

// UntilNextDailyRun is floored at zero.
func UntilNextDailyRun(now time.Time, hour int, loc *time.Location) time.Duration {
	wait := NextDailyRun(now, hour, loc).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

func DateToString(from time.Time, dateFormat string) string {
	return from.Format(dateFormat)
}
