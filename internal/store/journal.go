package store

import (
	"sync"
	"time"
)

// ActionKind enumerates every way a collection can change.
type ActionKind string

const (
	ActionReplace    ActionKind = "replace"
	ActionInsert     ActionKind = "insert"
	ActionUpdate     ActionKind = "update"
	ActionRemove     ActionKind = "remove"
	ActionAdjust     ActionKind = "adjust"
	ActionRestore    ActionKind = "restore"
	ActionLoadStart  ActionKind = "load-start"
	ActionLoadDone   ActionKind = "load-done"
	ActionLoadFail   ActionKind = "load-fail"
	ActionInvalidate ActionKind = "invalidate"
)

// Action is one journal entry.
type Action struct {
	Seq      int64      `json:"seq"`
	Time     time.Time  `json:"time"`
	Resource string     `json:"resource"`
	Kind     ActionKind `json:"kind"`
	Key      string     `json:"key,omitempty"`
	Count    int        `json:"count"`
	Detail   string     `json:"detail,omitempty"`
}

// Sink receives every action after it is journaled. Record is called with
// no store lock held and must not block.
type Sink interface {
	Record(Action)
}

// Journal is the bounded, ordered log of store actions.
type Journal struct {
	mu      sync.Mutex
	limit   int
	seq     int64
	actions []Action
	sinks   []Sink
	now     func() time.Time
}

func NewJournal(limit int) *Journal {
	if limit <= 0 {
		limit = 1000
	}
	return &Journal{limit: limit, now: time.Now}
}

// AddSink registers s for all future actions.
func (j *Journal) AddSink(s Sink) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sinks = append(j.sinks, s)
}

func (j *Journal) record(a Action) {
	j.mu.Lock()
	j.seq++
	a.Seq = j.seq
	a.Time = j.now()
	j.actions = append(j.actions, a)
	if len(j.actions) > j.limit {
		j.actions = j.actions[len(j.actions)-j.limit:]
	}
	sinks := j.sinks
	j.mu.Unlock()

	for _, s := range sinks {
		s.Record(a)
	}
}

// Actions returns the retained actions with Seq > after, oldest first.
func (j *Journal) Actions(after int64) []Action {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []Action
	for _, a := range j.actions {
		if a.Seq > after {
			out = append(out, a)
		}
	}
	return out
}

// Last returns the sequence number of the newest action.
func (j *Journal) Last() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.seq
}
