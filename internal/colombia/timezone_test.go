package colombia

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToColombiaLocalPreservesInstant(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC)
	got, err := ToColombiaLocal(in)
	require.NoError(t, err)
	require.True(t, got.Equal(in))
	require.Equal(t, 10, got.Hour())
	_, offset := got.Zone()
	require.Equal(t, -5*3600, offset)
}

func TestParseInputs(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC)
	inputs := []any{
		want,
		&want,
		"2024-01-15T15:30:00Z",
		"2024-01-15T10:30:00-05:00",
		"2024-01-15T15:30:00",
		"2024-01-15T15:30:00.000123",
		"2024-01-15 15:30:00",
		"2024-01-15 10:30:00-05:00",
		int64(1705332600000),
		1705332600000,
		float64(1705332600000),
		json.Number("1705332600000"),
	}
	for _, in := range inputs {
		got, err := Parse(in)
		require.NoError(t, err, "input %v", in)
		require.True(t, got.Truncate(time.Second).Equal(want), "input %v parsed as %v", in, got)
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	var nilTime *time.Time
	for _, in := range []any{nil, "", "   ", "mañana", time.Time{}, nilTime, struct{}{}, json.Number("x")} {
		_, err := Parse(in)
		require.Error(t, err, "input %v", in)
		require.True(t, errors.Is(err, ErrUnparseable))
	}
}

func TestFormatDefault(t *testing.T) {
	t.Parallel()

	got := Format("2024-01-15T15:30:00Z", Options{})
	require.Equal(t, "lunes, 15 de enero de 2024, 10:30 a. m.", got)
}

func TestFormatClockOnlyFlagUsesDefaults(t *testing.T) {
	t.Parallel()

	got := Format(time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC), Options{Hour24: true})
	require.Equal(t, "lunes, 15 de enero de 2024, 10:30", got)
}

func TestConvenienceFormats(t *testing.T) {
	t.Parallel()

	in := "2024-01-15T15:30:00Z"
	require.Equal(t, "lunes, 15 de enero de 2024", FormatDateOnly(in))
	require.Equal(t, "10:30 a. m.", FormatTimeOnly(in))
	require.Equal(t, "lunes, 15 de enero de 2024, 10:30 a. m.", FormatDateTime(in))
}

func TestFormatCrossesMidnight(t *testing.T) {
	t.Parallel()

	// 03:05 UTC is 22:05 of the previous day in Bogotá.
	require.Equal(t, "domingo, 14 de enero de 2024, 10:05 p. m.", FormatDateTime("2024-01-15 03:05:00"))
}

func TestClockEdges(t *testing.T) {
	t.Parallel()

	require.Equal(t, "12:00 p. m.", FormatTimeOnly("2024-03-01T17:00:00Z"))
	require.Equal(t, "12:00 a. m.", FormatTimeOnly("2024-03-01T05:00:00Z"))
	require.Equal(t, "09:07 a. m.", FormatTimeOnly("2024-03-01T14:07:00Z"))
	require.Equal(t, "21:07", Format("2024-03-02T02:07:00Z", Options{Hour: true, Minute: true, Hour24: true}))
}

func TestPartialOptions(t *testing.T) {
	t.Parallel()

	in := "2024-09-30T20:00:00Z"
	require.Equal(t, "septiembre de 2024", Format(in, Options{Month: true, Year: true}))
	require.Equal(t, "30 de septiembre", Format(in, Options{Day: true, Month: true}))
	require.Equal(t, "lunes", Format(in, Options{Weekday: true}))
}

func TestFormatNeverFails(t *testing.T) {
	t.Parallel()

	var nilTime *time.Time
	inputs := []any{nil, "", "no es una fecha", "2024-13-45", time.Time{}, nilTime, struct{}{}, []int{1}, true}
	for _, in := range inputs {
		for _, f := range []func(any) string{FormatDateOnly, FormatTimeOnly, FormatDateTime} {
			require.NotPanics(t, func() { _ = f(in) })
			require.NotEmpty(t, f(in), "input %v", in)
		}
	}
	require.Equal(t, "no es una fecha", FormatDateOnly("no es una fecha"))
	require.Equal(t, "Fecha inválida", FormatDateOnly(""))
}

func TestIsColombiaTimezone(t *testing.T) {
	t.Parallel()

	require.True(t, IsColombiaTimezone("2024-01-15T15:30:00Z"))
	require.True(t, IsColombiaTimezone("2024-01-15 15:30:00"))
	require.False(t, IsColombiaTimezone("2024-01-15T10:30:00-05:00"))
	require.False(t, IsColombiaTimezone(time.Date(2024, 1, 15, 10, 30, 0, 0, Zone)))
	require.False(t, IsColombiaTimezone("basura"))
}

func TestNow(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })
	now = func() time.Time { return time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC) }

	got := Now()
	require.Equal(t, 31, got.Day())
	require.Equal(t, time.May, got.Month())
	require.Equal(t, 21, got.Hour())
}

func TestDebug(t *testing.T) {
	t.Parallel()

	r := Debug("2024-01-15T15:30:00Z")
	require.NoError(t, r.Err)
	require.Equal(t, 0, r.OffsetMinutes)
	require.Equal(t, OffsetMinutes, r.TargetMinutes)
	require.Equal(t, "lunes, 15 de enero de 2024, 10:30 a. m.", r.Colombia)
	require.Contains(t, r.String(), "target=-300min")

	bad := Debug("nada")
	require.Error(t, bad.Err)
	require.Equal(t, "nada", bad.Original)
}
