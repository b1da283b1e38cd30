package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidClock = errors.New("invalid time of day")

// DateOf devuelve la fecha calendario de t (en su propia location) como
// medianoche UTC. Toda la aritmética de días trabaja sobre estos valores.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today es la fecha de hoy en loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// daysBetween asume fechas normalizadas con DateOf.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// ParseClock valida un horario "HH:MM" (24h, dos dígitos cada parte).
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(s[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(s[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// FireTime es el instante absoluto de una dosis: fecha calendario + horario en loc.
func FireTime(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc), nil
}
