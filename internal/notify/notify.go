// Package notify carries user-visible notifications: a short title and a
// message derived from the error, never a raw stack trace.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Error   Level = "error"
)

type Notification struct {
	// Seq is assigned by Recorder, starting at 1.
	Seq     int64  `json:"seq,omitempty"`
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use and must not block.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(n Notification) {
	ev := l.log.Info()
	if n.Level == Error {
		ev = l.log.Warn()
	}
	ev.Str("level_hint", string(n.Level)).Str("title", n.Title).Msg(n.Message)
}

// Recorder keeps the most recent notifications in memory, for tests and for
// the inspection server.
type Recorder struct {
	mu    sync.Mutex
	limit int
	seq   int64
	items []Notification
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 100
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.Seq = r.seq
	r.items = append(r.items, n)
	if len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
}

// All returns a copy of the recorded notifications, oldest first.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// After returns the recorded notifications with Seq greater than seq.
func (r *Recorder) After(seq int64) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.items {
		if n.Seq > seq {
			out = append(out, n)
		}
	}
	return out
}

// Fanout delivers to every notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(n Notification) {
	for _, x := range f {
		if x != nil {
			x.Notify(n)
		}
	}
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) {}
