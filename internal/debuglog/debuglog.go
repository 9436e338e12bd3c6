// Package debuglog holds the in-process record of AI gateway traffic: a
// bounded, append-only ring of request/response/error entries with
// synchronous snapshot notifications to subscribers.
package debuglog

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntryType classifies a debug log entry.
type EntryType string

const (
	TypeRequest  EntryType = "request"
	TypeResponse EntryType = "response"
	TypeError    EntryType = "error"
)

// Entry is one immutable debug log record. ID and Timestamp are assigned
// on append.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	Type      EntryType      `json:"type"`
	Model     string         `json:"model"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// DefaultCapacity bounds the ring when no capacity is configured.
const DefaultCapacity = 500

// Subscriber receives the full current snapshot after every change.
type Subscriber func(entries []Entry)

// Log is an explicitly constructed, process-lifetime debug log. When the
// ring is full the oldest entry is evicted. Entries are never individually
// deleted or mutated.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
	subs     map[int]Subscriber
	nextSub  int
	logger   *zap.Logger
}

// New creates a debug log bounded at capacity entries. A non-positive
// capacity falls back to DefaultCapacity. logger may be nil.
func New(capacity int, logger *zap.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		capacity: capacity,
		subs:     make(map[int]Subscriber),
		logger:   logger,
	}
}

// Append assigns an id and wall-clock timestamp to the entry, stores it
// (evicting the oldest entry when full), and notifies every subscriber
// with the full snapshot. The completed entry is returned.
func (l *Log) Append(entry Entry) Entry {
	entry.ID = uuid.NewString()[:8]
	entry.Timestamp = time.Now().Format("15:04:05")

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	snapshot := l.snapshotLocked()
	subs := l.subscribersLocked()
	l.mu.Unlock()

	l.notify(subs, snapshot)
	return entry
}

// Snapshot returns a copy of the current entries, oldest first.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Clear empties the log and notifies subscribers with the empty snapshot.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	subs := l.subscribersLocked()
	l.mu.Unlock()

	l.notify(subs, []Entry{})
}

// Subscribe registers fn to receive snapshots and returns a handle that
// removes the registration. Callbacks are expected to be non-blocking.
func (l *Log) Subscribe(fn Subscriber) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

func (l *Log) snapshotLocked() []Entry {
	snapshot := make([]Entry, len(l.entries))
	copy(snapshot, l.entries)
	return snapshot
}

func (l *Log) subscribersLocked() []Subscriber {
	subs := make([]Subscriber, 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	return subs
}

// notify delivers the snapshot to each subscriber in turn, isolating
// panics so one failing subscriber cannot stop the others.
func (l *Log) notify(subs []Subscriber, snapshot []Entry) {
	for _, fn := range subs {
		l.notifyOne(fn, snapshot)
	}
}

func (l *Log) notifyOne(fn Subscriber, snapshot []Entry) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("debug_log_subscriber_panic", zap.Any("panic", r))
		}
	}()
	fn(snapshot)
}
