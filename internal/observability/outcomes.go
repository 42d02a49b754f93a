package observability

import (
	"log"
	"sync"
)

// OutcomeObserver tallies generation outcomes per kind and logs each
// request's disposition. The warned set keeps the repair-rate warning to
// one line per kind.
type OutcomeObserver struct {
	logger *log.Logger

	mu     sync.Mutex
	counts map[string]int64
	warned map[string]bool
}

func NewOutcomeObserver(logger *log.Logger) *OutcomeObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &OutcomeObserver{
		logger: logger,
		counts: make(map[string]int64),
		warned: make(map[string]bool),
	}
}

func (o *OutcomeObserver) Record(kind string, durationSeconds float64) {
	if o == nil {
		return
	}
	o.mu.Lock()
	o.counts[kind]++
	count := o.counts[kind]
	total := int64(0)
	for _, n := range o.counts {
		total += n
	}
	degraded := kind != "parsed"
	warnNow := degraded && total >= 10 && float64(count)/float64(total) >= 0.2 && !o.warned[kind]
	if warnNow {
		o.warned[kind] = true
	}
	o.mu.Unlock()

	o.logger.Printf("search outcome=%s duration=%.4fs", kind, durationSeconds)
	if warnNow {
		o.logger.Printf("WARN outcome %s above 20%% of requests (%d of %d)", kind, count, total)
	}
}

// Snapshot copies the per-kind counters.
func (o *OutcomeObserver) Snapshot() map[string]int64 {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]int64, len(o.counts))
	for kind, n := range o.counts {
		out[kind] = n
	}
	return out
}
