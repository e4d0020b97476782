package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecorder_KeepsMostRecent(t *testing.T) {
	r := NewRecorder(2)
	for _, title := range []string{"a", "b", "c"} {
		r.Notify(Notification{Level: Info, Title: title})
	}
	got := r.All()
	if len(got) != 2 || got[0].Title != "b" || got[1].Title != "c" {
		t.Fatalf("All() = %+v", got)
	}
	if got[0].Seq != 2 || got[1].Seq != 3 {
		t.Errorf("seq = %d, %d, want 2, 3", got[0].Seq, got[1].Seq)
	}
	if after := r.After(2); len(after) != 1 || after[0].Title != "c" {
		t.Errorf("After(2) = %+v", after)
	}
}

func TestFanout(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(10)
	f := Fanout{NewLogNotifier(zerolog.New(&buf)), nil, rec}
	f.Notify(Notification{Level: Error, Title: "Save failed", Message: "backend unreachable"})

	if len(rec.All()) != 1 {
		t.Fatalf("recorder got %d notifications", len(rec.All()))
	}
	if !strings.Contains(buf.String(), "backend unreachable") || !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("log output = %s", buf.String())
	}
}
