package observability

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestRecordCountsPerKind(t *testing.T) {
	obs := NewOutcomeObserver(log.New(&bytes.Buffer{}, "", 0))
	obs.Record("parsed", 0.1)
	obs.Record("parsed", 0.2)
	obs.Record("repaired", 0.3)

	counts := obs.Snapshot()
	if counts["parsed"] != 2 || counts["repaired"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestRecordWarnsOnceOnHighDegradedShare(t *testing.T) {
	var buf bytes.Buffer
	obs := NewOutcomeObserver(log.New(&buf, "", 0))
	for i := 0; i < 7; i++ {
		obs.Record("parsed", 0.1)
	}
	for i := 0; i < 5; i++ {
		obs.Record("repaired", 0.1)
	}

	warnings := strings.Count(buf.String(), "WARN outcome repaired")
	if warnings != 1 {
		t.Fatalf("expected exactly one warning, got %d\n%s", warnings, buf.String())
	}
}

func TestNilObserverIsSafe(t *testing.T) {
	var obs *OutcomeObserver
	obs.Record("parsed", 0.1)
	if obs.Snapshot() != nil {
		t.Fatalf("expected nil snapshot from nil observer")
	}
}
