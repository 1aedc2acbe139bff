// Package interaction keeps the append-only record of every chat turn and the
// log of queries no knowledge entry could answer. Both grow for the process
// lifetime; a windowing policy can be added here without touching the engine.
package interaction

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NovaEd-Consulting/atlas/internal/features"
)

// Record is one processed chat turn. Immutable after creation except for the
// two feedback fields, which a later feedback call may fill in once.
type Record struct {
	ID         uuid.UUID
	SessionID  string
	Input      string
	Response   string
	EntryID    string // knowledge entry that produced the response, if any
	CreatedAt  time.Time
	WasHelpful *bool
	Rating     *int
}

// FailedQuery marks an input no catalog entry scored high enough to answer.
type FailedQuery struct {
	SessionID string
	Query     string
	Attempts  int
	CreatedAt time.Time
}

// Log is the combined interaction and failed-query store.
type Log struct {
	mu      sync.Mutex
	records []*Record
	failed  []*FailedQuery
}

func NewLog() *Log {
	return &Log{}
}

// Append records a processed turn and returns the stored record.
func (l *Log) Append(sessionID, input, response, entryID string) *Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := &Record{
		ID:        uuid.New(),
		SessionID: sessionID,
		Input:     input,
		Response:  response,
		EntryID:   entryID,
		CreatedAt: time.Now().UTC(),
	}
	l.records = append(l.records, rec)
	return rec
}

// AttachFeedback locates the most recent record for (sessionID, input) whose
// feedback is still unset and fills it in. Returns a copy of the updated
// record, or false when no such record exists.
func (l *Log) AttachFeedback(sessionID, input string, helpful bool, rating int) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.records) - 1; i >= 0; i-- {
		rec := l.records[i]
		if rec.SessionID != sessionID || rec.Input != input || rec.WasHelpful != nil {
			continue
		}
		h := helpful
		r := rating
		rec.WasHelpful = &h
		rec.Rating = &r
		return *rec, true
	}
	return Record{}, false
}

// Total returns the number of logged interactions.
func (l *Log) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// CountSince returns how many interactions were logged at or after t.
func (l *Log) CountSince(t time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, rec := range l.records {
		if !rec.CreatedAt.Before(t) {
			n++
		}
	}
	return n
}

// RecordFailure logs a query that fell through to the fallback path. An exact
// repeat from the same session bumps the attempt counter instead of appending
// a new row.
func (l *Log) RecordFailure(sessionID, query string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, fq := range l.failed {
		if fq.SessionID == sessionID && fq.Query == query {
			fq.Attempts++
			return
		}
	}
	l.failed = append(l.failed, &FailedQuery{
		SessionID: sessionID,
		Query:     query,
		Attempts:  1,
		CreatedAt: time.Now().UTC(),
	})
}

// SimilarFailures counts logged failure attempts whose query text has Jaccard
// similarity above threshold to query. Repeat attempts count individually, so
// a user rephrasing the same unanswerable question escalates quickly.
func (l *Log) SimilarFailures(query string, threshold float64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, fq := range l.failed {
		if features.Similarity(query, fq.Query) > threshold {
			n += fq.Attempts
		}
	}
	return n
}

// FailedSince returns how many failure attempts were first logged at or after t.
func (l *Log) FailedSince(t time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, fq := range l.failed {
		if !fq.CreatedAt.Before(t) {
			n += fq.Attempts
		}
	}
	return n
}
