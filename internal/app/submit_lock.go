package app

import "sync"

// SubmitLock lets one submission per form run at a time. A second submit
// while the first is in flight is rejected, not queued.
type SubmitLock struct {
	mu   sync.Mutex
	busy map[string]bool
}

func NewSubmitLock() *SubmitLock {
	return &SubmitLock{busy: make(map[string]bool)}
}

// TryAcquire claims form. When ok is false the form is already submitting
// and release is nil.
func (l *SubmitLock) TryAcquire(form string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy[form] {
		return nil, false
	}
	l.busy[form] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.busy, form)
			l.mu.Unlock()
		})
	}, true
}
