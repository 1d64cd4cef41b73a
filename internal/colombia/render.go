package colombia

import (
	"fmt"
	"strings"
	"time"
)

// Options selects which fields Format renders. Hour24 switches the clock
// from the es-CO default "a. m."/"p. m." form to 24 hours.
type Options struct {
	Weekday bool
	Day     bool
	Month   bool
	Year    bool
	Hour    bool
	Minute  bool
	Hour24  bool
}

func (o Options) selectsField() bool {
	return o.Weekday || o.Day || o.Month || o.Year || o.Hour || o.Minute
}

var (
	DefaultOptions  = Options{Weekday: true, Day: true, Month: true, Year: true, Hour: true, Minute: true}
	DateOnlyOptions = Options{Weekday: true, Day: true, Month: true, Year: true}
	TimeOnlyOptions = Options{Hour: true, Minute: true}
	DateTimeOptions = DefaultOptions
)

var weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// WeekdayName returns the Spanish name of d.
func WeekdayName(d time.Weekday) string { return weekdays[d] }

// MonthName returns the Spanish name of m.
func MonthName(m time.Month) string { return months[m-1] }

// render formats t as-is; callers convert to Zone first.
func render(t time.Time, o Options) string {
	var parts []string
	if o.Weekday {
		parts = append(parts, WeekdayName(t.Weekday()))
	}
	if d := datePart(t, o); d != "" {
		parts = append(parts, d)
	}
	if c := clockPart(t, o); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}

func datePart(t time.Time, o Options) string {
	var segs []string
	if o.Day {
		segs = append(segs, fmt.Sprintf("%d", t.Day()))
	}
	if o.Month {
		segs = append(segs, MonthName(t.Month()))
	}
	if o.Year {
		segs = append(segs, fmt.Sprintf("%d", t.Year()))
	}
	return strings.Join(segs, " de ")
}

func clockPart(t time.Time, o Options) string {
	if !o.Hour && !o.Minute {
		return ""
	}
	hour := t.Hour()
	suffix := ""
	if !o.Hour24 {
		suffix = " a. m."
		if hour >= 12 {
			suffix = " p. m."
		}
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}
	switch {
	case o.Hour && o.Minute:
		return fmt.Sprintf("%02d:%02d%s", hour, t.Minute(), suffix)
	case o.Hour:
		return fmt.Sprintf("%02d%s", hour, suffix)
	default:
		return fmt.Sprintf("%02d", t.Minute())
	}
}
