package host

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eapache/queue"
)

// LogEntry is one record in the kernel log.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// String formats the entry as a single dmesg-style line.
func (e LogEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s %s", e.Time.Format(time.TimeOnly), e.Level, e.Message)
	for _, a := range e.Attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	return b.String()
}

// Log is a bounded ring of kernel log entries. When the ring is full the
// oldest entry is dropped. A Log is safe for concurrent use.
type Log struct {
	mutex    sync.Mutex
	entries  *queue.Queue
	capacity int
	dropped  uint64
}

// NewLog creates a log that keeps the most recent capacity entries.
// A capacity below 1 is treated as 1.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{entries: queue.New(), capacity: capacity}
}

// Add appends e, evicting the oldest entry if the log is full.
func (l *Log) Add(e LogEntry) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	for l.entries.Length() >= l.capacity {
		l.entries.Remove()
		l.dropped++
	}
	l.entries.Add(e)
}

// Entries returns a snapshot of the log, oldest first.
func (l *Log) Entries() []LogEntry {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	out := make([]LogEntry, l.entries.Length())
	for i := range out {
		out[i] = l.entries.Get(i).(LogEntry)
	}
	return out
}

// Len returns the number of entries held.
func (l *Log) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.entries.Length()
}

// Dropped returns how many entries have been evicted.
func (l *Log) Dropped() uint64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.dropped
}

// Handler returns an slog.Handler that records every Info-or-higher record
// in the log and forwards records to next when next is enabled for them.
// next may be nil.
func (l *Log) Handler(next slog.Handler) slog.Handler {
	return &logHandler{log: l, next: next}
}

type logHandler struct {
	log    *Log
	next   slog.Handler
	attrs  []slog.Attr
	prefix string
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelInfo {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelInfo {
		attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
		attrs = append(attrs, h.attrs...)
		r.Attrs(func(a slog.Attr) bool {
			attrs = append(attrs, h.qualify(a))
			return true
		})
		h.log.Add(LogEntry{
			Time:    r.Time,
			Level:   r.Level,
			Message: r.Message,
			Attrs:   attrs,
		})
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}
	if h.next != nil {
		c.next = h.next.WithAttrs(attrs)
	}
	return &c
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	if h.next != nil {
		c.next = h.next.WithGroup(name)
	}
	return &c
}

func (h *logHandler) qualify(a slog.Attr) slog.Attr {
	if h.prefix != "" {
		a.Key = h.prefix + a.Key
	}
	return a
}
