package engine

import "time"

// DateLayout is the wire format for day labels.
const DateLayout = "2006-01-02"

// maxBackdateDays bounds how far in the past a completion may be logged.
const maxBackdateDays = 60

// NormalizeDate turns caller-supplied date input into a canonical day label.
// An absent or malformed value defaults to today. Dates in the future are
// clamped down to today (tolerates client clock skew); dates more than 60
// days in the past are rejected outright so the completion table cannot be
// backfilled without bound.
func NormalizeDate(input string, now time.Time) (string, error) {
	today := now.Format(DateLayout)
	if input == "" {
		return today, nil
	}
	d, err := time.ParseInLocation(DateLayout, input, now.Location())
	if err != nil {
		return today, nil
	}
	if d.After(now) {
		return today, nil
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := midnight.AddDate(0, 0, -maxBackdateDays)
	if d.Before(cutoff) {
		return "", ValidationError{Field: "date", Reason: "date is more than 60 days in the past"}
	}
	return d.Format(DateLayout), nil
}

// windowStart returns the label for the first day of the trailing 7-day
// stat window (today inclusive back 6 days).
func windowStart(now time.Time) string {
	return now.AddDate(0, 0, -6).Format(DateLayout)
}
