// Package knowledge holds the hand-authored topic catalog the matching engine
// scores against, together with the per-entry usage and feedback statistics
// that accumulate over the process lifetime.
package knowledge

import (
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Feedback is a single helpfulness signal recorded against an entry.
type Feedback struct {
	ID        uuid.UUID
	Helpful   bool
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Entry is one topic in the catalog. Entries are never deleted; only their
// statistics change after seeding.
type Entry struct {
	ID          string
	Keywords    []string
	Patterns    []*regexp.Regexp
	Response    string
	Category    string
	Confidence  float64
	UsageCount  int
	SuccessRate float64
	CreatedAt   time.Time
	LastUsedAt  time.Time
	Feedback    []Feedback
	FollowUps   []string
}

// Store guards the catalog. All writes are serialised; readers get value
// copies so scoring never observes a half-applied update.
type Store struct {
	mu      sync.Mutex
	entries []*Entry
	byID    map[string]*Entry
}

// NewStore builds a store from a seed catalog.
func NewStore(entries []*Entry) *Store {
	byID := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return &Store{entries: entries, byID: byID}
}

// Snapshot returns value copies of every entry, in catalog order.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

// Get returns a value copy of the entry with the given id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// RecordUse marks an entry as selected: bumps its usage count and last-used
// timestamp.
func (s *Store) RecordUse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return
	}
	e.UsageCount++
	e.LastUsedAt = time.Now().UTC()
}

// ApplyFeedback folds a helpfulness signal into an entry's success rate and
// appends the feedback record. The blend moves the rate halfway toward 1 on
// positive feedback and halfway toward 0 on negative, clamped to [0,1].
func (s *Store) ApplyFeedback(id string, helpful bool, rating int, comment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return false
	}

	signal := 0.0
	if helpful {
		signal = 1.0
	}
	e.SuccessRate = clamp((e.SuccessRate + signal) / 2.0)
	e.Feedback = append(e.Feedback, Feedback{
		ID:        uuid.New(),
		Helpful:   helpful,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
	return true
}

// AverageSuccess returns the mean success rate across the catalog.
func (s *Store) AverageSuccess() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, e := range s.entries {
		sum += e.SuccessRate
	}
	return sum / float64(len(s.entries))
}

// Size returns the number of catalog entries.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func clamp(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
