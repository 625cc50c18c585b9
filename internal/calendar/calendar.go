// Package calendar answers "is the exchange trading right now" questions for
// NYSE/NASDAQ regular hours (09:30-16:00 America/New_York, Monday-Friday).
package calendar

import (
	"time"
	_ "time/tzdata"
)

var exchangeTZ *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// tzdata is embedded, so this only fires on a corrupt build.
		panic("calendar: load America/New_York: " + err.Error())
	}
	exchangeTZ = loc
}

const (
	openHour    = 9
	openMinute  = 30
	closeHour   = 16
	closeMinute = 0
)

// DateParts holds calendar fields resolved in the exchange timezone.
type DateParts struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday time.Weekday
}

// PartsIn resolves t into calendar fields in the exchange timezone. The
// conversion goes through the tz database so DST transitions are handled.
func PartsIn(t time.Time) DateParts {
	lt := t.In(exchangeTZ)
	return DateParts{
		Year:    lt.Year(),
		Month:   lt.Month(),
		Day:     lt.Day(),
		Hour:    lt.Hour(),
		Minute:  lt.Minute(),
		Second:  lt.Second(),
		Weekday: lt.Weekday(),
	}
}

// IsWeekday reports whether t falls on a trading weekday (Mon-Fri) in the
// exchange timezone.
func IsWeekday(t time.Time) bool {
	wd := t.In(exchangeTZ).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsOpen reports whether the regular trading session is open at t.
// The session is open on weekdays from 09:30:00 inclusive to 16:00:00
// exclusive. Exchange holidays are not modeled.
func IsOpen(t time.Time) bool {
	if !IsWeekday(t) {
		return false
	}
	lt := t.In(exchangeTZ)
	sessionOpen := time.Date(lt.Year(), lt.Month(), lt.Day(), openHour, openMinute, 0, 0, exchangeTZ)
	sessionClose := time.Date(lt.Year(), lt.Month(), lt.Day(), closeHour, closeMinute, 0, 0, exchangeTZ)
	return !lt.Before(sessionOpen) && lt.Before(sessionClose)
}

// NextOpen returns the earliest session-open instant (09:30:00 on a weekday)
// that is not before t.
func NextOpen(t time.Time) time.Time {
	return nextBoundary(t, openHour, openMinute)
}

// NextClose returns the earliest session-close instant (16:00:00 on a weekday)
// that is not before t.
func NextClose(t time.Time) time.Time {
	return nextBoundary(t, closeHour, closeMinute)
}

func nextBoundary(t time.Time, hour, minute int) time.Time {
	lt := t.In(exchangeTZ)
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, exchangeTZ)
	for {
		cand := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, exchangeTZ)
		if IsWeekday(cand) && !cand.Before(t) {
			return cand
		}
		day = day.AddDate(0, 0, 1)
	}
}
