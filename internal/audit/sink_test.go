package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"erp-sync/internal/core"
	"erp-sync/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type fakeExec struct {
	mu   sync.Mutex
	rows [][]any
	fail bool
}

func (f *fakeExec) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return pgconn.CommandTag{}, errors.New("relation store_actions does not exist")
	}
	f.rows = append(f.rows, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPgSink_PersistsJournal(t *testing.T) {
	db := &fakeExec{}
	sink := NewPgSink(db, 16, zerolog.Nop())

	s := store.New(0)
	s.Journal.AddSink(sink)
	s.Sales.Insert(core.Sale{InvoiceNumber: "INV-0001"})
	s.Sales.Remove("INV-0001")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sink.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(db.rows) != 2 {
		t.Fatalf("persisted %d rows, want 2", len(db.rows))
	}
	first := db.rows[0]
	if first[0] != sink.Session() || first[1] != int64(1) || first[3] != store.ResSales || first[4] != "insert" || first[5] != "INV-0001" {
		t.Errorf("row = %v", first)
	}

	// Records after Close are ignored.
	sink.Record(store.Action{Seq: 99})
	if len(db.rows) != 2 {
		t.Error("action recorded after Close")
	}
}

func TestPgSink_CountsFailures(t *testing.T) {
	db := &fakeExec{fail: true}
	sink := NewPgSink(db, 4, zerolog.Nop())
	sink.Record(store.Action{Seq: 1, Resource: "sales", Kind: store.ActionInsert})
	if err := sink.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sink.Failed() != 1 {
		t.Errorf("Failed() = %d", sink.Failed())
	}
}
