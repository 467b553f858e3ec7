package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is an offset from midnight of the single operating day.
// All planning and status queries are expressed in it.
type TimeOfDay time.Duration

// Clock builds a TimeOfDay from hours, minutes and seconds.
func Clock(h, m, s int) TimeOfDay {
	return TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

// ParseTimeOfDay accepts "HH:MM", "HH:MM:SS" and 12-hour forms such as "9:05 am" or "10:30 AM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("parse time %q: empty value: %w", s, ErrInvalidTime)
	}

	meridiem := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(raw, suffix) {
			meridiem = suffix
			raw = strings.TrimSpace(strings.TrimSuffix(raw, suffix))
			break
		}
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse time %q: want HH:MM or HH:MM:SS: %w", s, ErrInvalidTime)
	}

	fields := make([]int, 3)
	for i, p := range parts {
		// The hour takes one or two digits; minutes and seconds take exactly two.
		if !isDigits(p) || len(p) > 2 || (i > 0 && len(p) != 2) {
			return 0, fmt.Errorf("parse time %q: bad field %q: %w", s, p, ErrInvalidTime)
		}
		fields[i], _ = strconv.Atoi(p)
	}
	h, m, sec := fields[0], fields[1], fields[2]

	if meridiem != "" {
		if h < 1 || h > 12 {
			return 0, fmt.Errorf("parse time %q: hour out of range: %w", s, ErrInvalidTime)
		}
		if h == 12 {
			h = 0
		}
		if meridiem == "PM" {
			h += 12
		}
	}

	if h > 23 || m > 59 || sec > 59 {
		return 0, fmt.Errorf("parse time %q: out of range: %w", s, ErrInvalidTime)
	}

	return Clock(h, m, sec), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration { return time.Duration(t) }

// Add moves the time forward by d.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay { return t + TimeOfDay(d) }

func (t TimeOfDay) Before(o TimeOfDay) bool { return t < o }

func (t TimeOfDay) After(o TimeOfDay) bool { return t > o }

// String renders the time as HH:MM:SS, truncating sub-second precision.
func (t TimeOfDay) String() string {
	d := time.Duration(t).Truncate(time.Second)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Kitchen renders the time in the 12-hour form used by the package table, e.g. "9:05 AM".
func (t TimeOfDay) Kitchen() string {
	d := time.Duration(t).Truncate(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, meridiem)
}

// TravelTime converts a distance in miles to elapsed driving time at the given speed.
func TravelTime(miles, mph float64) time.Duration {
	if mph <= 0 {
		return 0
	}
	return time.Duration(miles / mph * float64(time.Hour))
}

func MaxTime(a, b TimeOfDay) TimeOfDay {
	if a > b {
		return a
	}
	return b
}

// Deadline is either a concrete time of day or "end of day".
type Deadline struct {
	At       TimeOfDay
	EndOfDay bool
}

// EOD is the deadline for packages that only need to arrive by the end of the day.
var EOD = Deadline{EndOfDay: true}

func DeadlineAt(t TimeOfDay) Deadline { return Deadline{At: t} }

// ParseDeadline accepts "EOD" (any case) or any format ParseTimeOfDay accepts.
func ParseDeadline(s string) (Deadline, error) {
	if strings.EqualFold(strings.TrimSpace(s), "EOD") {
		return EOD, nil
	}
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return Deadline{}, fmt.Errorf("parse deadline: %w", err)
	}
	return DeadlineAt(t), nil
}

// Resolve returns the concrete latest delivery time, using dayEnd for EOD.
func (d Deadline) Resolve(dayEnd TimeOfDay) TimeOfDay {
	if d.EndOfDay {
		return dayEnd
	}
	return d.At
}

func (d Deadline) String() string {
	if d.EndOfDay {
		return "EOD"
	}
	return d.At.Kitchen()
}
