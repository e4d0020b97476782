// Package audit persists the store action journal to Postgres.
package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"erp-sync/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Execer is the subset of *pgxpool.Pool the sink needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertAction = `
INSERT INTO store_actions (session_id, seq, recorded_at, resource, kind, record_key, count, detail)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (session_id, seq) DO NOTHING`

// PgSink writes store actions to the store_actions table from a background
// goroutine. Record never blocks: when the buffer is full the action is
// dropped and counted.
type PgSink struct {
	db      Execer
	session uuid.UUID
	log     zerolog.Logger

	mu      sync.Mutex
	closed  bool
	ch      chan store.Action
	done    chan struct{}
	dropped atomic.Int64
	failed  atomic.Int64
}

func NewPgSink(db Execer, buffer int, log zerolog.Logger) *PgSink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &PgSink{
		db:      db,
		session: uuid.New(),
		log:     log,
		ch:      make(chan store.Action, buffer),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Session identifies this process's rows.
func (s *PgSink) Session() uuid.UUID { return s.session }

func (s *PgSink) Record(a store.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- a:
	default:
		s.dropped.Add(1)
	}
}

// Dropped is the number of actions lost to a full buffer.
func (s *PgSink) Dropped() int64 { return s.dropped.Load() }

// Failed is the number of actions the database rejected.
func (s *PgSink) Failed() int64 { return s.failed.Load() }

// Close stops accepting actions and waits until the buffer is flushed or
// ctx ends.
func (s *PgSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PgSink) run() {
	defer close(s.done)
	for a := range s.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := s.db.Exec(ctx, insertAction,
			s.session, a.Seq, a.Time, a.Resource, string(a.Kind), a.Key, a.Count, a.Detail)
		cancel()
		if err != nil {
			s.failed.Add(1)
			s.log.Warn().Err(err).Int64("seq", a.Seq).Str("resource", a.Resource).Msg("action not persisted")
		}
	}
}
