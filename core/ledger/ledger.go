package ledger

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Record is one exhausted unit of work.
type Record struct {
	Kind  Kind
	Err   error
	Label string
	At    time.Time
}

func (r Record) String() string {
	return fmt.Sprintf("%s: %v (%s)", r.Kind, r.Err, r.Label)
}

// Ledger is an append-only list of Records for one run.
type Ledger struct {
	mu      sync.Mutex
	records []Record
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends err with its classified kind. A nil err is ignored.
func (l *Ledger) Record(err error, label string) {
	if err == nil {
		return
	}
	l.add(Record{Kind: KindOf(err), Err: err, Label: label, At: time.Now()})
}

// RecordMessage appends a raw sentinel message. The message doubles as the kind.
func (l *Ledger) RecordMessage(msg, label string) {
	l.add(Record{Kind: Kind(msg), Err: errors.New(msg), Label: label, At: time.Now()})
}

func (l *Ledger) add(r Record) {
	l.mu.Lock()
	l.records = append(l.records, r)
	l.mu.Unlock()
}

// Records returns a snapshot in recording order.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Clear drops all records.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}

// CountByKind returns how many records share each kind.
func (l *Ledger) CountByKind() map[Kind]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[Kind]int)
	for _, r := range l.records {
		counts[r.Kind]++
	}
	return counts
}

// Summary renders "kind: count" pairs joined by ", " in first-seen order.
// Returns an empty string for an empty ledger.
func (l *Ledger) Summary() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	order := make([]Kind, 0, 4)
	counts := make(map[Kind]int)
	for _, r := range l.records {
		if _, seen := counts[r.Kind]; !seen {
			order = append(order, r.Kind)
		}
		counts[r.Kind]++
	}

	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
