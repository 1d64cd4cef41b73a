// Package colombia renders timestamps in Colombia local time (UTC-5, no
// daylight saving) using the es-CO conventions the PAPYRUS web UI shows.
//
// Formatting never fails: when an input cannot be understood the functions
// fall back to the input's own string form.
package colombia

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Timezone      = "America/Bogota"
	Locale        = "es-CO"
	OffsetMinutes = -300
)

// Zone is the fixed UTC-5 zone Colombia observes all year.
var Zone = time.FixedZone("COT", OffsetMinutes*60)

// ErrUnparseable is returned when an input is not a recognised timestamp.
var ErrUnparseable = errors.New("unparseable timestamp")

// invalidDate is rendered for empty input.
const invalidDate = "Fecha inválida"

var now = time.Now

// naive layouts carry no offset and are read as UTC, which is how the
// backend stores timestamps.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Parse turns input into a time.Time. It accepts time.Time, *time.Time,
// strings in the layouts above and Unix millisecond numbers.
func Parse(input any) (time.Time, error) {
	switch v := input.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, fmt.Errorf("zero time: %w", ErrUnparseable)
		}
		return v, nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, fmt.Errorf("nil time: %w", ErrUnparseable)
		}
		return *v, nil
	case string:
		return parseString(v)
	case int64:
		return time.UnixMilli(v), nil
	case int:
		return time.UnixMilli(int64(v)), nil
	case float64:
		return time.UnixMilli(int64(v)), nil
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("number %q: %w", v.String(), ErrUnparseable)
		}
		return time.UnixMilli(ms), nil
	case nil:
		return time.Time{}, fmt.Errorf("nil input: %w", ErrUnparseable)
	default:
		return time.Time{}, fmt.Errorf("type %T: %w", input, ErrUnparseable)
	}
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty string: %w", ErrUnparseable)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, ErrUnparseable)
}

// ToColombiaLocal returns the same instant expressed in Zone.
func ToColombiaLocal(input any) (time.Time, error) {
	t, err := Parse(input)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(Zone), nil
}

// Now returns the current instant in Colombia local time.
func Now() time.Time {
	return now().In(Zone)
}

// IsColombiaTimezone reports whether converting input changes its clock
// reading, i.e. its offset is not already UTC-5. Unparseable input is false.
func IsColombiaTimezone(input any) bool {
	t, err := Parse(input)
	if err != nil {
		return false
	}
	_, offset := t.Zone()
	return offset != OffsetMinutes*60
}

// Format converts input to Colombia local time and renders it with opts.
// Options that select no field render DefaultOptions, keeping Hour24.
func Format(input any, opts Options) string {
	t, err := ToColombiaLocal(input)
	if err != nil {
		return fallback(input)
	}
	if !opts.selectsField() {
		hour24 := opts.Hour24
		opts = DefaultOptions
		opts.Hour24 = hour24
	}
	return render(t, opts)
}

func FormatDateOnly(input any) string { return Format(input, DateOnlyOptions) }

func FormatTimeOnly(input any) string { return Format(input, TimeOnlyOptions) }

func FormatDateTime(input any) string { return Format(input, DateTimeOptions) }

func fallback(input any) string {
	switch v := input.(type) {
	case nil:
		return invalidDate
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
		return invalidDate
	case *time.Time:
		if v == nil {
			return invalidDate
		}
		return v.String()
	case time.Time:
		if v.IsZero() {
			return invalidDate
		}
		return v.String()
	}
	if s := strings.TrimSpace(fmt.Sprint(input)); s != "" {
		return s
	}
	return invalidDate
}

// Report describes how an input was interpreted.
type Report struct {
	Original      string
	UTC           string
	Colombia      string
	OffsetMinutes int
	TargetMinutes int
	Err           error
}

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("timezone debug: %s: %v", r.Original, r.Err)
	}
	return fmt.Sprintf("timezone debug: original=%s utc=%s colombia=%s offset=%dmin target=%dmin",
		r.Original, r.UTC, r.Colombia, r.OffsetMinutes, r.TargetMinutes)
}

// Debug reports the original, UTC and Colombia renderings of input.
func Debug(input any) Report {
	r := Report{TargetMinutes: OffsetMinutes}
	t, err := Parse(input)
	if err != nil {
		r.Original = fallback(input)
		r.Err = err
		return r
	}
	_, offset := t.Zone()
	r.Original = t.Format(time.RFC3339)
	r.UTC = t.UTC().Format(time.RFC1123)
	r.Colombia = render(t.In(Zone), DateTimeOptions)
	r.OffsetMinutes = offset / 60
	return r
}
