package learning

import (
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestObserve_CreatesAndIncrements(t *testing.T) {
	s := NewStore()
	feats := []string{"scholarship", "scholarship options"}

	s.Observe(feats, "answer one", []string{"initial"}, nil)
	s.Observe(feats, "answer two", []string{"exploring"}, nil)

	if got := s.FeatureCount(); got != 2 {
		t.Fatalf("feature count = %d, want 2", got)
	}

	top := s.TopFeatures(10)
	for _, fc := range top {
		if fc.Count != 2 {
			t.Errorf("feature %q count = %d, want 2", fc.Feature, fc.Count)
		}
	}
}

func TestObserve_ResponsesStayUnique(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Observe([]string{"pricing"}, "same answer", nil, nil)
	}
	s.Observe([]string{"pricing"}, "different answer", nil, nil)

	// Promote the pattern far enough to read its responses back.
	for i := 0; i < 60; i++ {
		s.Observe([]string{"pricing"}, "same answer", nil, boolPtr(true))
	}
	responses, _, ok := s.Lookup([]string{"pricing"})
	if !ok {
		t.Fatal("expected promoted pattern")
	}
	if len(responses) != 2 {
		t.Errorf("responses = %v, want exactly 2 unique entries", responses)
	}
}

func TestLookup_RequiresPromotion(t *testing.T) {
	s := NewStore()

	// Frequent but never confirmed helpful: success rate stays at 0.5.
	for i := 0; i < 80; i++ {
		s.Observe([]string{"visa"}, "visa answer", nil, nil)
	}
	if _, _, ok := s.Lookup([]string{"visa"}); ok {
		t.Error("pattern without positive feedback should not promote")
	}

	// Helpful but too rare: confidence (freq/100 × rate) stays under 0.3.
	for i := 0; i < 5; i++ {
		s.Observe([]string{"housing"}, "housing answer", nil, boolPtr(true))
	}
	if _, _, ok := s.Lookup([]string{"housing"}); ok {
		t.Error("low-frequency pattern should not promote")
	}
}

func TestLookup_PromotesReinforcedPattern(t *testing.T) {
	s := NewStore()
	for i := 0; i < 50; i++ {
		s.Observe([]string{"deadlines"}, "applications close in June", nil, boolPtr(true))
	}

	responses, conf, ok := s.Lookup([]string{"deadlines", "unseen feature"})
	if !ok {
		t.Fatal("expected promotion after 50 positive observations")
	}
	if conf <= 0.3 {
		t.Errorf("confidence = %f, want > 0.3", conf)
	}
	if len(responses) != 1 || responses[0] != "applications close in June" {
		t.Errorf("unexpected responses %v", responses)
	}
}

func TestLookup_PicksHighestConfidence(t *testing.T) {
	s := NewStore()
	for i := 0; i < 40; i++ {
		s.Observe([]string{"weak"}, "weak answer", nil, boolPtr(true))
	}
	for i := 0; i < 90; i++ {
		s.Observe([]string{"strong"}, "strong answer", nil, boolPtr(true))
	}

	responses, _, ok := s.Lookup([]string{"weak", "strong"})
	if !ok {
		t.Fatal("expected a promoted pattern")
	}
	if responses[0] != "strong answer" {
		t.Errorf("expected the higher-confidence pattern, got %v", responses)
	}
}

func TestReinforce_Blend(t *testing.T) {
	s := NewStore()
	s.Observe([]string{"fees"}, "fee answer", nil, nil)

	s.Reinforce([]string{"fees"}, true)
	s.Reinforce([]string{"fees", "not seen before"}, true)

	// 0.5 → 0.75 → 0.875; the unknown feature is ignored, not created.
	if got := s.FeatureCount(); got != 1 {
		t.Errorf("reinforce created a pattern: count = %d, want 1", got)
	}

	for i := 0; i < 60; i++ {
		s.Observe([]string{"fees"}, "fee answer", nil, nil)
	}
	_, conf, ok := s.Lookup([]string{"fees"})
	if !ok {
		t.Fatal("expected promotion")
	}
	// frequency 61, rate 0.875 → confidence 0.534 give or take the blend.
	if conf < 0.3 || conf > 1.0 {
		t.Errorf("confidence = %f out of expected range", conf)
	}
}

func TestTopFeatures_OrderAndLimit(t *testing.T) {
	s := NewStore()
	s.Observe([]string{"alpha"}, "r", nil, nil)
	for i := 0; i < 3; i++ {
		s.Observe([]string{"beta"}, "r", nil, nil)
	}
	for i := 0; i < 2; i++ {
		s.Observe([]string{"gamma"}, "r", nil, nil)
	}

	top := s.TopFeatures(2)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Feature != "beta" || top[1].Feature != "gamma" {
		t.Errorf("unexpected order: %v", top)
	}
}
