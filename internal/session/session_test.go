package session

import "testing"

func TestGet_CreatesOnFirstSight(t *testing.T) {
	s := NewStore()

	ctx := s.Get("visitor-1")
	if ctx.Stage != StageInitial {
		t.Errorf("new session stage = %q, want initial", ctx.Stage)
	}
	if ctx.Style != "" {
		t.Errorf("new session style = %q, want unset", ctx.Style)
	}
	if ctx.Fact.Supplied {
		t.Error("new session should have no academic fact")
	}

	ctx.History = append(ctx.History, "hello")
	again := s.Get("visitor-1")
	if len(again.History) != 1 {
		t.Error("Get did not return the same context on second call")
	}
	if s.Size() != 1 {
		t.Errorf("size = %d, want 1", s.Size())
	}
}

func TestPeek_DoesNotCreate(t *testing.T) {
	s := NewStore()
	if _, ok := s.Peek("ghost"); ok {
		t.Error("peek on unknown session returned ok")
	}
	if s.Size() != 0 {
		t.Errorf("peek created a session: size = %d", s.Size())
	}
}

func TestAddInterest_Idempotent(t *testing.T) {
	ctx := &Context{}
	ctx.AddInterest("engineering")
	ctx.AddInterest("business")
	ctx.AddInterest("engineering")

	if len(ctx.Interests) != 2 {
		t.Errorf("interests = %v, want two unique entries", ctx.Interests)
	}
}
