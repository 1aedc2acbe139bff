package engine

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/NovaEd-Consulting/atlas/internal/interaction"
	"github.com/NovaEd-Consulting/atlas/internal/knowledge"
	"github.com/NovaEd-Consulting/atlas/internal/learning"
	"github.com/NovaEd-Consulting/atlas/internal/session"
)

func newTestEngine() *Engine {
	return New(
		knowledge.NewStore(knowledge.Seed()),
		learning.NewStore(),
		interaction.NewLog(),
		session.NewStore(),
		Options{Rand: rand.New(rand.NewSource(1))},
	)
}

func boolPtr(b bool) *bool { return &b }

func TestProcessMessage_AlwaysReplies(t *testing.T) {
	e := newTestEngine()
	inputs := []string{
		"hello",
		"what courses do you offer?",
		"how much does it cost",
		"my gpa is 3.9",
		"zzz qqq unmatched gibberish",
		"!!!",
		"a",
	}
	for _, in := range inputs {
		res := e.ProcessMessage("s", in, nil)
		if strings.TrimSpace(res.Reply) == "" {
			t.Errorf("empty reply for input %q", in)
		}
		if res.Confidence == "" {
			t.Errorf("missing confidence label for input %q", in)
		}
	}
}

func TestGreeting_FirstAndReturning(t *testing.T) {
	e := newTestEngine()

	for _, msg := range []string{"Hello", "hi there", "Good morning"} {
		res := e.ProcessMessage("fresh-"+msg, msg, nil)
		if res.Source != SourceGreeting {
			t.Errorf("%q routed to %s, want greeting", msg, res.Source)
		}
		found := false
		for _, g := range greetings {
			if res.Reply == g {
				found = true
			}
		}
		if !found {
			t.Errorf("first greeting reply %q not in the greeting set", res.Reply)
		}
	}

	// A second greeting from a session with history gets the distinct
	// welcome-back variant.
	e.ProcessMessage("returning", "hello", nil)
	res := e.ProcessMessage("returning", "hello again", nil)
	if res.Reply != welcomeBack {
		t.Errorf("returning greeting = %q, want welcome-back variant", res.Reply)
	}
}

func TestQuestionRoutesToTopicEntry(t *testing.T) {
	e := newTestEngine()
	res := e.ProcessMessage("s", "What courses do you offer?", nil)

	if res.Source != SourceTopic {
		t.Fatalf("source = %s, want topic", res.Source)
	}
	entry, _ := e.kb.Get(knowledge.EntryPrograms)
	if res.Reply != entry.Response {
		t.Errorf("reply is not the programs entry response")
	}
	if entry.UsageCount != 1 {
		t.Errorf("programs usage = %d, want 1", entry.UsageCount)
	}
}

func TestPricingIntent(t *testing.T) {
	e := newTestEngine()
	res := e.ProcessMessage("s", "how much does it cost", nil)

	if res.Source != SourcePricing {
		t.Fatalf("source = %s, want pricing", res.Source)
	}
	entry, _ := e.kb.Get(knowledge.EntryPricing)
	if res.Reply != entry.Response {
		t.Errorf("reply is not the pricing entry response")
	}
}

func TestComplaint_BypassesCatalog(t *testing.T) {
	e := newTestEngine()
	res := e.ProcessMessage("s", "I have a problem with your service", nil)

	if res.Source != SourceComplaint {
		t.Fatalf("source = %s, want complaint", res.Source)
	}
	if res.Reply != complaintReply {
		t.Errorf("complaint reply mismatch")
	}
	for _, entry := range e.kb.Snapshot() {
		if entry.UsageCount != 0 {
			t.Errorf("complaint updated stats on entry %q", entry.ID)
		}
	}
}

func TestAcademicAssessment_Tiers(t *testing.T) {
	tests := []struct {
		message string
		want    []string
		exclude string
	}{
		{"my gpa is 3.8", []string{"Academic Excellence", "50%"}, ""},
		{"my gpa is 3.5", []string{"Academic Excellence", "30%"}, "50%"},
		{"my gpa is 3.0", []string{"Academic Merit", "15%"}, ""},
		{"my gpa is 2.99", []string{"Need-based grants"}, "Congratulations"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			e := newTestEngine()
			res := e.ProcessMessage("s", tt.message, nil)
			if res.Source != SourceAssessment {
				t.Fatalf("source = %s, want assessment", res.Source)
			}
			for _, want := range tt.want {
				if !strings.Contains(res.Reply, want) {
					t.Errorf("reply missing %q:\n%s", want, res.Reply)
				}
			}
			if tt.exclude != "" && strings.Contains(res.Reply, tt.exclude) {
				t.Errorf("reply should not contain %q", tt.exclude)
			}
		})
	}
}

func TestAcademicAssessment_StoresFact(t *testing.T) {
	e := newTestEngine()
	e.ProcessMessage("s", "my gpa is 8.5 out of 10", nil)

	ctx, ok := e.sessions.Peek("s")
	if !ok {
		t.Fatal("session not created")
	}
	if !ctx.Fact.Supplied {
		t.Fatal("fact block not set")
	}
	if math.Abs(ctx.Fact.Value-8.5) > 0.001 || math.Abs(ctx.Fact.Scale-10.0) > 0.001 {
		t.Errorf("fact = %+v, want 8.5/10", ctx.Fact)
	}
}

func TestAcademicTopic_WithoutValue_Clarifies(t *testing.T) {
	e := newTestEngine()
	res := e.ProcessMessage("s", "is my gpa good enough?", nil)

	if res.Source != SourceAssessment {
		t.Fatalf("source = %s, want assessment", res.Source)
	}
	if !strings.Contains(res.Reply, "what is your GPA") {
		t.Errorf("expected clarifying prompt, got %q", res.Reply)
	}
	ctx, _ := e.sessions.Peek("s")
	if ctx.Fact.Supplied {
		t.Error("clarifying prompt must not set the fact block")
	}
}

func TestScoredSearch_MatchesCatalog(t *testing.T) {
	e := newTestEngine()
	res := e.ProcessMessage("s", "scholarship eligibility and merit awards", nil)

	if res.Source != SourceKnowledge {
		t.Fatalf("source = %s, want knowledge", res.Source)
	}
	if res.Confidence != "medium" {
		t.Errorf("confidence = %s, want medium", res.Confidence)
	}
	entry, _ := e.kb.Get(knowledge.EntryEligibility)
	if entry.UsageCount != 1 {
		t.Errorf("eligibility usage = %d, want 1", entry.UsageCount)
	}
}

func TestFallback_ThenEscalation(t *testing.T) {
	e := newTestEngine()

	res := e.ProcessMessage("s", "please teleport my cat to mars", nil)
	if res.Source != SourceFallback {
		t.Fatalf("first miss source = %s, want fallback", res.Source)
	}
	found := false
	for _, f := range fallbacks {
		if res.Reply == f {
			found = true
		}
	}
	if !found {
		t.Errorf("fallback reply %q not in the fallback set", res.Reply)
	}

	e.ProcessMessage("s", "teleport my cat to mars please", nil)
	res = e.ProcessMessage("s", "can you teleport my cat to mars", nil)
	if res.Source != SourceEscalation {
		t.Fatalf("third similar miss source = %s, want escalation", res.Source)
	}
	if !strings.Contains(res.Reply, "human advisor") {
		t.Errorf("escalation reply missing contact hand-off: %q", res.Reply)
	}
	if res.Confidence != "low" {
		t.Errorf("escalation confidence = %s, want low", res.Confidence)
	}
}

func TestLearnedPromotion(t *testing.T) {
	e := newTestEngine()

	var expected string
	for i := 0; i < 40; i++ {
		res := e.ProcessMessage("s", "scholarship eligibility and merit awards", boolPtr(true))
		expected = res.Reply
	}

	res := e.ProcessMessage("s", "scholarship eligibility and merit awards", nil)
	if res.Source != SourceLearned {
		t.Fatalf("source after reinforcement = %s, want learned", res.Source)
	}
	if res.Reply != expected {
		t.Errorf("learned reply %q not drawn from the recorded response list", res.Reply)
	}
	if res.Confidence != "high" {
		t.Errorf("learned confidence = %s, want high", res.Confidence)
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	e := newTestEngine()
	e.ProcessMessage("s", "What courses do you offer?", nil)

	before, _ := e.kb.Get(knowledge.EntryPrograms)
	msg, ok := e.SubmitFeedback("s", 0, true, 5)
	if !ok {
		t.Fatalf("feedback failed: %s", msg)
	}
	after, _ := e.kb.Get(knowledge.EntryPrograms)
	if after.SuccessRate <= before.SuccessRate {
		t.Errorf("success rate did not increase: %f → %f", before.SuccessRate, after.SuccessRate)
	}

	if _, ok := e.SubmitFeedback("no-such-session", 0, true, 5); ok {
		t.Error("feedback for unknown session should fail")
	}
	if _, ok := e.SubmitFeedback("s", 99, true, 5); ok {
		t.Error("feedback for out-of-range index should fail")
	}
	if _, ok := e.SubmitFeedback("s", -1, true, 5); ok {
		t.Error("feedback for negative index should fail")
	}
}

func TestStyleAdaptation_Concise(t *testing.T) {
	e := newTestEngine()
	e.ProcessMessage("s", "keep it brief please", nil)
	res := e.ProcessMessage("s", "What courses do you offer?", nil)

	lines := 0
	for _, line := range strings.Split(res.Reply, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	if lines > 5 {
		t.Errorf("concise reply has %d non-blank lines, want at most 5", lines)
	}
	if strings.ContainsAny(res.Reply, "*•#") {
		t.Errorf("concise reply still contains markup: %q", res.Reply)
	}
}

func TestStyleAdaptation_Conversational(t *testing.T) {
	e := newTestEngine()
	e.ProcessMessage("s", "keep it casual", nil)
	res := e.ProcessMessage("s", "What courses do you offer?", nil)

	entry, _ := e.kb.Get(knowledge.EntryPrograms)
	matched := false
	for _, lead := range conversationalLeadIns {
		if res.Reply == lead+" "+entry.Response {
			matched = true
		}
	}
	if !matched {
		t.Errorf("conversational reply %q does not prefix a lead-in to the unchanged response", res.Reply)
	}
}

func TestStageTransitions(t *testing.T) {
	e := newTestEngine()

	e.ProcessMessage("s", "hello", nil)
	ctx, _ := e.sessions.Peek("s")
	if ctx.Stage != session.StageInitial {
		t.Errorf("after one turn stage = %s, want initial", ctx.Stage)
	}

	e.ProcessMessage("s", "scholarship eligibility and merit awards", nil)
	if ctx.Stage != session.StageExploring {
		t.Errorf("after two turns stage = %s, want exploring", ctx.Stage)
	}

	e.ProcessMessage("s", "what does it cost?", nil)
	if ctx.Stage != session.StageDeciding {
		t.Errorf("after price question stage = %s, want deciding", ctx.Stage)
	}

	e.ProcessMessage("s", "I want to apply", nil)
	if ctx.Stage != session.StageEnrolling {
		t.Errorf("after apply stage = %s, want enrolling", ctx.Stage)
	}

	// The funnel never moves backwards.
	e.ProcessMessage("s", "thanks for everything", nil)
	if ctx.Stage != session.StageEnrolling {
		t.Errorf("stage demoted to %s after a neutral turn", ctx.Stage)
	}
}

func TestInterestTracking(t *testing.T) {
	e := newTestEngine()
	e.ProcessMessage("s", "I'm interested in engineering programs", nil)
	e.ProcessMessage("s", "also maybe business, and more engineering", nil)

	ctx, _ := e.sessions.Peek("s")
	count := map[string]int{}
	for _, i := range ctx.Interests {
		count[i]++
	}
	if count["engineering"] != 1 {
		t.Errorf("engineering tracked %d times, want exactly once", count["engineering"])
	}
	if count["business"] != 1 {
		t.Errorf("business tracked %d times, want exactly once", count["business"])
	}
}

func TestStats(t *testing.T) {
	e := newTestEngine()
	e.ProcessMessage("a", "hello", nil)
	e.ProcessMessage("b", "what courses do you offer?", nil)
	e.ProcessMessage("c", "gibberish zzz qqq", nil)

	snap := e.Stats()
	if snap.TotalInteractions != 3 {
		t.Errorf("total interactions = %d, want 3", snap.TotalInteractions)
	}
	if snap.KnowledgeEntries != e.kb.Size() {
		t.Errorf("knowledge entries = %d, want %d", snap.KnowledgeEntries, e.kb.Size())
	}
	if snap.LearnedFeatures == 0 {
		t.Error("no learned features after three turns")
	}
	if snap.FailedLast24h != 1 {
		t.Errorf("failed last 24h = %d, want 1", snap.FailedLast24h)
	}
	if snap.Sessions != 3 {
		t.Errorf("sessions = %d, want 3", snap.Sessions)
	}
	if len(snap.TopFeatures) == 0 {
		t.Error("top features empty")
	}
}
