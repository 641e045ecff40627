package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrInvalidTemplate = errors.New("invalid message template")
)

var timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)

// ScheduleRecord mirrors the schedule file.
type ScheduleRecord struct {
	Time    string `json:"time"`    // "H:MM" or "HH:MM", 24h
	Message string `json:"message"` // one %d-style placeholder, substituted with Days
	Days    int    `json:"days"`
}

type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Matches reports whether now falls inside the trigger minute.
func (t TimeOfDay) Matches(now time.Time) bool {
	return now.Hour() == t.Hour && now.Minute() == t.Minute
}

// Next returns the next trigger instant strictly after now, in now's location.
func (t TimeOfDay) Next(now time.Time) time.Time {
	// A schedule parsed without CRON_TZ is evaluated in the location of the
	// time handed to Next.
	sched, _ := cron.ParseStandard(fmt.Sprintf("%d %d * * *", t.Minute, t.Hour))
	return sched.Next(now)
}

func (r ScheduleRecord) TimeOfDay() (TimeOfDay, error) {
	return ParseTimeOfDay(r.Time)
}

func (r ScheduleRecord) Validate() error {
	if _, err := r.TimeOfDay(); err != nil {
		return err
	}
	if _, err := goFormat(r.Message); err != nil {
		return err
	}
	if r.Days < 0 {
		return fmt.Errorf("days must be non-negative, got %d", r.Days)
	}
	return nil
}

// Render substitutes Days into Message.
func (r ScheduleRecord) Render() (string, error) {
	format, err := goFormat(r.Message)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(format, r.Days), nil
}

// intVerbRe matches a printf-style integer conversion at the start of the
// input: flags, width, precision, an ignored length modifier and d, i or u.
var intVerbRe = regexp.MustCompile(`^%([-+ #0]*)(\d*)(\.\d*)?[hlL]?[diu]`)

// goFormat turns a template with exactly one integer conversion into a
// fmt format string. "%%" stays a literal percent; any other conversion or
// a dangling % is rejected, so the result is safe to hand to fmt.Sprintf.
func goFormat(tmpl string) (string, error) {
	var b strings.Builder
	n := 0
	for i := 0; i < len(tmpl); {
		if tmpl[i] != '%' {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		if strings.HasPrefix(tmpl[i:], "%%") {
			b.WriteString("%%")
			i += 2
			continue
		}
		m := intVerbRe.FindStringSubmatch(tmpl[i:])
		if m == nil {
			return "", fmt.Errorf("%w: unsupported conversion at offset %d in %q", ErrInvalidTemplate, i, tmpl)
		}
		n++
		b.WriteString("%" + m[1] + m[2] + m[3] + "d")
		i += len(m[0])
	}
	if n != 1 {
		return "", fmt.Errorf("%w: want exactly one integer placeholder, got %d in %q", ErrInvalidTemplate, n, tmpl)
	}
	return b.String(), nil
}
