package notify

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays on the bus before it expires.
const DefaultTTL = 5 * time.Second

// Severity classifies a notification for presentation.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// ParseSeverity maps a raw name to a Severity. Unknown names report false.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case Info:
		return Info, true
	case Success:
		return Success, true
	case Warning:
		return Warning, true
	case Error:
		return Error, true
	}
	return Info, false
}

// Notification is a transient user-facing message.
type Notification struct {
	ID        uint64
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Sink is what components push into. *Bus satisfies it.
type Sink interface {
	Push(message string, severity Severity) Notification
	SetLoading(loading bool)
}

// Bus is an ordered queue of notifications with timed expiry, plus the
// shared loading flag.
type Bus struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	seq      uint64
	items    []Notification
	timers   map[uint64]*time.Timer
	loading  bool
	onChange func()
	closed   bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.ttl = d
		}
	}
}

// WithClock sets the function used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{
		ttl:    DefaultTTL,
		now:    time.Now,
		timers: make(map[uint64]*time.Timer),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnChange registers fn to run after every mutation. fn is called without
// the bus lock held, possibly from a timer goroutine.
func (b *Bus) OnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Push appends a notification and schedules its expiry.
func (b *Bus) Push(message string, severity Severity) Notification {
	if sev, ok := ParseSeverity(string(severity)); ok {
		severity = sev
	} else {
		severity = Info
	}

	b.mu.Lock()
	b.seq++
	n := Notification{
		ID:        b.seq,
		Message:   message,
		Severity:  severity,
		CreatedAt: b.now(),
	}
	b.items = append(b.items, n)
	if !b.closed {
		id := n.ID
		b.timers[id] = time.AfterFunc(b.ttl, func() { b.expire(id) })
	}
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn()
	}
	return n
}

// Dismiss removes the notification with id and cancels its expiry.
// It reports whether anything was removed.
func (b *Bus) Dismiss(id uint64) bool {
	b.mu.Lock()
	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
	removed := b.remove(id)
	fn := b.onChange
	b.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
	return removed
}

func (b *Bus) expire(id uint64) {
	b.mu.Lock()
	delete(b.timers, id)
	removed := b.remove(id)
	fn := b.onChange
	b.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
}

// remove drops id from the queue. Caller holds b.mu.
func (b *Bus) remove(id uint64) bool {
	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// Notifications returns the live notifications in insertion order.
func (b *Bus) Notifications() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notification, len(b.items))
	copy(out, b.items)
	return out
}

// Pending returns the number of expiry timers still scheduled.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}

func (b *Bus) SetLoading(loading bool) {
	b.mu.Lock()
	changed := b.loading != loading
	b.loading = loading
	fn := b.onChange
	b.mu.Unlock()

	if changed && fn != nil {
		fn()
	}
}

func (b *Bus) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Close stops every pending expiry timer. Notifications pushed afterwards
// never expire on their own.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.closed = true
}
