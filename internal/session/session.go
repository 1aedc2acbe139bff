// Package session tracks per-caller conversation state: history, inferred
// interests, a coarse funnel stage, a response-style preference, and any
// structured academic fact the caller has shared.
package session

import (
	"sync"
	"time"
)

// Stage is the coarse admissions-funnel position of a session.
type Stage string

const (
	StageInitial   Stage = "initial"
	StageExploring Stage = "exploring"
	StageDeciding  Stage = "deciding"
	StageEnrolling Stage = "enrolling"
)

// Style is a caller's preferred response shape. The zero value means no
// preference has been signalled.
type Style string

const (
	StyleDetailed       Style = "detailed"
	StyleConcise        Style = "concise"
	StyleConversational Style = "conversational"
)

// AcademicFact is a parsed academic score and its declared scale.
type AcademicFact struct {
	Value    float64
	Scale    float64
	Supplied bool
}

// Context is the running state for one session. The engine is its sole
// writer; it is mutated only while the engine holds its turn lock.
type Context struct {
	SessionID    string
	History      []string
	Interests    []string
	Stage        Stage
	Style        Style
	Fact         AcademicFact
	LastCategory string
	CreatedAt    time.Time
}

// AddInterest appends an interest if not already present.
func (c *Context) AddInterest(interest string) {
	for _, i := range c.Interests {
		if i == interest {
			return
		}
	}
	c.Interests = append(c.Interests, interest)
}

// Store is the process-lifetime session cache. Contexts are created on first
// sight of a session id and never evicted.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Context
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Context)}
}

// Get returns the context for id, creating it at the initial stage when the
// id has not been seen before.
func (s *Store) Get(id string) *Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.sessions[id]
	if !ok {
		ctx = &Context{
			SessionID: id,
			Stage:     StageInitial,
			CreatedAt: time.Now().UTC(),
		}
		s.sessions[id] = ctx
	}
	return ctx
}

// Peek returns the context for id without creating one.
func (s *Store) Peek(id string) (*Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.sessions[id]
	return ctx, ok
}

// Size returns the number of tracked sessions.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
