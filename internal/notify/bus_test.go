package notify

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	b := NewBus()
	t.Cleanup(b.Close)

	first := b.Push("uno", Info)
	second := b.Push("dos", Error)
	third := b.Push("uno", Info)

	got := b.Notifications()
	require.Len(t, got, 3)
	require.Equal(t, []uint64{first.ID, second.ID, third.ID}, []uint64{got[0].ID, got[1].ID, got[2].ID})
	require.Less(t, first.ID, second.ID)
	require.Less(t, second.ID, third.ID)
	require.Equal(t, Error, got[1].Severity)
}

func TestPushNormalizesSeverity(t *testing.T) {
	t.Parallel()

	b := NewBus()
	t.Cleanup(b.Close)

	require.Equal(t, Info, b.Push("sin tipo", "").Severity)
	require.Equal(t, Info, b.Push("raro", Severity("fatal")).Severity)
	require.Equal(t, Warning, b.Push("ojo", Severity("WARNING")).Severity)
}

func TestNotificationExpires(t *testing.T) {
	t.Parallel()

	b := NewBus(WithTTL(30 * time.Millisecond))
	t.Cleanup(b.Close)

	n := b.Push("temporal", Success)
	require.Len(t, b.Notifications(), 1)
	require.Equal(t, n.ID, b.Notifications()[0].ID)

	require.Eventually(t, func() bool {
		return len(b.Notifications()) == 0
	}, time.Second, 5*time.Millisecond)
	require.Zero(t, b.Pending())
}

func TestDismissCancelsExpiry(t *testing.T) {
	t.Parallel()

	b := NewBus(WithTTL(time.Hour))
	t.Cleanup(b.Close)

	n := b.Push("cerrar", Info)
	keep := b.Push("mantener", Info)
	require.Equal(t, 2, b.Pending())

	require.True(t, b.Dismiss(n.ID))
	require.Equal(t, 1, b.Pending())
	got := b.Notifications()
	require.Len(t, got, 1)
	require.Equal(t, keep.ID, got[0].ID)

	require.False(t, b.Dismiss(n.ID))
	require.False(t, b.Dismiss(9999))
}

func TestOnChangeFiresOnMutations(t *testing.T) {
	t.Parallel()

	b := NewBus(WithTTL(200 * time.Millisecond))
	t.Cleanup(b.Close)

	var calls atomic.Int32
	b.OnChange(func() { calls.Add(1) })

	b.Push("a", Info)
	require.EqualValues(t, 1, calls.Load())

	b.SetLoading(true)
	b.SetLoading(true)
	require.EqualValues(t, 2, calls.Load())
	require.True(t, b.Loading())

	b.SetLoading(false)
	require.False(t, b.Loading())
	require.EqualValues(t, 3, calls.Load())

	require.Eventually(t, func() bool { return calls.Load() == 4 }, time.Second, 5*time.Millisecond)
}

func TestCreatedAtUsesClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC)
	b := NewBus(WithClock(func() time.Time { return fixed }))
	t.Cleanup(b.Close)

	require.Equal(t, fixed, b.Push("hora", Info).CreatedAt)
}

func TestCloseStopsTimers(t *testing.T) {
	t.Parallel()

	b := NewBus(WithTTL(50 * time.Millisecond))
	b.Push("a", Info)
	b.Close()
	require.Zero(t, b.Pending())

	b.Push("b", Info)
	time.Sleep(120 * time.Millisecond)
	require.Len(t, b.Notifications(), 2)
}
