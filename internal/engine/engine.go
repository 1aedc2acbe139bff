// Package engine orchestrates the assistant's matching pipeline: learned
// responses, structured-fact handling, fast intent checks, scored catalog
// search, and the escalation fallback, folding every turn back into the
// learning stores.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/NovaEd-Consulting/atlas/internal/eligibility"
	"github.com/NovaEd-Consulting/atlas/internal/events"
	"github.com/NovaEd-Consulting/atlas/internal/features"
	"github.com/NovaEd-Consulting/atlas/internal/intent"
	"github.com/NovaEd-Consulting/atlas/internal/interaction"
	"github.com/NovaEd-Consulting/atlas/internal/knowledge"
	"github.com/NovaEd-Consulting/atlas/internal/learning"
	"github.com/NovaEd-Consulting/atlas/internal/session"
	"github.com/NovaEd-Consulting/atlas/internal/store"
)

// Response sources, also used to derive the confidence label.
const (
	SourceLearned    = "learned"
	SourceAssessment = "assessment"
	SourceGreeting   = "greeting"
	SourceTopic      = "topic"
	SourcePricing    = "pricing"
	SourceComplaint  = "complaint"
	SourceKnowledge  = "knowledge"
	SourceFallback   = "fallback"
	SourceEscalation = "escalation"
)

// Catalog search tuning: minimum accepted score and the Jaccard threshold for
// counting a prior failed query as "the same question again".
const (
	acceptScore        = 2.0
	failureSimilarity  = 0.3
	escalationFailures = 2 // escalate when more than this many similar failures exist
)

// Engine owns all five stores and is their sole writer. A single mutex
// serialises turns; the optional archive and event publisher are called only
// after the lock is released.
type Engine struct {
	mu       sync.Mutex
	kb       *knowledge.Store
	learned  *learning.Store
	log      *interaction.Log
	sessions *session.Store
	events   *events.Client
	archive  *store.Archive
	rng      *rand.Rand
	logger   *slog.Logger
}

// Options carries the optional collaborators.
type Options struct {
	Events  *events.Client
	Archive *store.Archive
	Rand    *rand.Rand
	Logger  *slog.Logger
}

func New(kb *knowledge.Store, learned *learning.Store, log *interaction.Log, sessions *session.Store, opts Options) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		kb:       kb,
		learned:  learned,
		log:      log,
		sessions: sessions,
		events:   opts.Events,
		archive:  opts.Archive,
		rng:      rng,
		logger:   logger,
	}
}

// Result is one processed turn.
type Result struct {
	Reply      string
	Source     string
	Confidence string
}

// ProcessMessage runs one turn for a session. The optional helpful signal is
// folded into the learning update for this turn. Any non-empty message is
// processable; empty messages are rejected at the transport boundary.
func (e *Engine) ProcessMessage(sessionID, message string, helpful *bool) Result {
	e.mu.Lock()
	res, rec, failed, similar := e.process(sessionID, message, helpful)
	e.mu.Unlock()

	// Side effects happen outside the turn lock.
	if res.Source == SourceEscalation && e.events != nil {
		if err := e.events.Publish(events.SubjectEscalation, events.EscalationSignal{
			SessionID:       sessionID,
			Query:           message,
			SimilarFailures: similar,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			e.logger.Warn("failed to publish escalation", "error", err)
		}
	}
	if e.archive != nil {
		ctx := context.Background()
		if err := e.archive.WriteInteraction(ctx, rec); err != nil {
			e.logger.Warn("failed to archive interaction", "error", err)
		}
		if failed {
			if err := e.archive.WriteFailedQuery(ctx, sessionID, message, rec.CreatedAt); err != nil {
				e.logger.Warn("failed to archive failed query", "error", err)
			}
		}
	}

	return res
}

func (e *Engine) process(sessionID, message string, helpful *bool) (Result, interaction.Record, bool, int) {
	ctx := e.sessions.Get(sessionID)
	feats := features.Extract(message)

	var reply, source, entryID string

	// Learned-response short-circuit: frequently reinforced answers preempt
	// the static catalog.
	if candidates, conf, ok := e.learned.Lookup(feats); ok {
		reply = adaptResponse(candidates[e.rng.Intn(len(candidates))], ctx.Style, e.rng)
		source = SourceLearned
		e.logger.Debug("learned response selected", "session", sessionID, "confidence", conf)
	}

	// Structured academic fact: a parsable GPA produces the deterministic
	// assessment; the topic without a value produces a clarifying prompt.
	if reply == "" && intent.MentionsAcademicScore(message) {
		if value, scale, ok := eligibility.ParseScore(message); ok {
			ctx.Fact = session.AcademicFact{Value: value, Scale: scale, Supplied: true}
			reply = eligibility.RenderAssessment(value, scale)
		} else {
			reply = eligibility.ClarifyPrompt()
		}
		source = SourceAssessment
	}

	// Fast intent checks, first match wins.
	if reply == "" {
		if intent.IsGreeting(message) {
			if len(ctx.History) > 0 {
				reply = welcomeBack
			} else {
				reply = greetings[e.rng.Intn(len(greetings))]
			}
			source = SourceGreeting
		} else if topic, ok := intent.TopicFor(message); ok && intent.IsQuestion(message) {
			if entry, found := e.kb.Get(topic); found {
				e.kb.RecordUse(entry.ID)
				ctx.LastCategory = entry.Category
				entryID = entry.ID
				reply = adaptResponse(entry.Response, ctx.Style, e.rng)
				source = SourceTopic
			}
		} else if intent.AsksPricing(message) {
			if entry, found := e.kb.Get(knowledge.EntryPricing); found {
				e.kb.RecordUse(entry.ID)
				ctx.LastCategory = entry.Category
				entryID = entry.ID
				reply = adaptResponse(entry.Response, ctx.Style, e.rng)
				source = SourcePricing
			}
		} else if intent.IsComplaint(message) {
			// Complaints bypass the catalog entirely and touch no entry stats.
			reply = complaintReply
			source = SourceComplaint
		}
	}

	// Scored catalog search.
	if reply == "" {
		best, score := e.searchCatalog(message, ctx.LastCategory)
		if score >= acceptScore {
			e.kb.RecordUse(best.ID)
			ctx.LastCategory = best.Category
			entryID = best.ID
			text := best.Response
			if len(best.FollowUps) > 0 {
				text += "\n\n" + best.FollowUps[e.rng.Intn(len(best.FollowUps))]
			}
			reply = adaptResponse(text, ctx.Style, e.rng)
			source = SourceKnowledge
			e.logger.Debug("catalog match", "session", sessionID, "entry", best.ID, "score", score)
		}
	}

	// Escalation fallback.
	failed := false
	similar := 0
	if reply == "" {
		failed = true
		e.log.RecordFailure(sessionID, message)
		similar = e.log.SimilarFailures(message, failureSimilarity)
		if similar > escalationFailures {
			reply = escalationReply
			source = SourceEscalation
			e.logger.Info("escalating to human support", "session", sessionID, "similar_failures", similar)
		} else {
			reply = fallbacks[e.rng.Intn(len(fallbacks))]
			source = SourceFallback
		}
	}

	// Post-processing, applied on every path.
	rec := e.log.Append(sessionID, message, reply, entryID)
	e.learned.Observe(feats, reply, []string{string(ctx.Stage)}, helpful)
	ctx.History = append(ctx.History, message)
	for _, tag := range intent.Interests(message) {
		ctx.AddInterest(tag)
	}
	if style, ok := intent.StyleSignal(message); ok {
		ctx.Style = style
	}
	advanceStage(ctx, message)

	return Result{
		Reply:      reply,
		Source:     source,
		Confidence: confidenceFor(source),
	}, *rec, failed, similar
}

// searchCatalog computes the additive score for every entry and returns the
// best one: 2 per keyword substring, 3 per pattern match, 1 for category
// continuity, 2 × success rate, 5 × Jaccard similarity of the message against
// the entry's keywords and response text.
func (e *Engine) searchCatalog(message, lastCategory string) (knowledge.Entry, float64) {
	m := strings.ToLower(message)

	var best knowledge.Entry
	bestScore := -1.0
	for _, entry := range e.kb.Snapshot() {
		score := 0.0
		for _, kw := range entry.Keywords {
			if strings.Contains(m, kw) {
				score += 2.0
			}
		}
		for _, p := range entry.Patterns {
			if p.MatchString(message) {
				score += 3.0
			}
		}
		if lastCategory != "" && entry.Category == lastCategory {
			score += 1.0
		}
		score += 2.0 * entry.SuccessRate
		score += 5.0 * features.Similarity(message, strings.Join(entry.Keywords, " ")+" "+entry.Response)

		if score > bestScore {
			best = entry
			bestScore = score
		}
	}
	return best, bestScore
}

// stageRank orders the funnel so a session never moves backwards.
func stageRank(s session.Stage) int {
	switch s {
	case session.StageEnrolling:
		return 3
	case session.StageDeciding:
		return 2
	case session.StageExploring:
		return 1
	default:
		return 0
	}
}

// advanceStage applies the stage transition chain: an explicit enrol signal
// wins, then a price signal, then plain conversation depth. The funnel only
// moves forward.
func advanceStage(ctx *session.Context, message string) {
	next := ctx.Stage
	if signal, ok := intent.StageSignal(message); ok {
		next = signal
	} else if len(ctx.History) > 1 {
		next = session.StageExploring
	}
	if stageRank(next) > stageRank(ctx.Stage) {
		ctx.Stage = next
	}
}

func confidenceFor(source string) string {
	switch source {
	case SourceLearned, SourceAssessment, SourceGreeting, SourceTopic, SourcePricing, SourceComplaint:
		return "high"
	case SourceKnowledge:
		return "medium"
	default:
		return "low"
	}
}

// SubmitFeedback resolves a zero-based index into a session's question
// history, attaches the signal to the matching interaction record, and
// re-runs the learning blend with the now-known helpfulness. Returns ok=false
// with no side effects for an unknown session or out-of-range index.
func (e *Engine) SubmitFeedback(sessionID string, index int, helpful bool, rating int) (string, bool) {
	e.mu.Lock()

	ctx, found := e.sessions.Peek(sessionID)
	if !found || index < 0 || index >= len(ctx.History) {
		e.mu.Unlock()
		return "No matching message found for that session and index.", false
	}
	input := ctx.History[index]

	rec, ok := e.log.AttachFeedback(sessionID, input, helpful, rating)
	if !ok {
		e.mu.Unlock()
		return "Feedback for that message was already recorded.", false
	}

	e.learned.Reinforce(features.Extract(input), helpful)
	if rec.EntryID != "" {
		e.kb.ApplyFeedback(rec.EntryID, helpful, rating, "")
	}
	e.mu.Unlock()

	if e.events != nil {
		if err := e.events.Publish(events.SubjectFeedback, events.FeedbackSignal{
			SessionID: sessionID,
			Input:     input,
			Helpful:   helpful,
			Rating:    rating,
		}); err != nil {
			e.logger.Warn("failed to publish feedback", "error", err)
		}
	}
	if e.archive != nil {
		if err := e.archive.MarkFeedback(context.Background(), rec); err != nil {
			e.logger.Warn("failed to archive feedback", "error", err)
		}
	}

	e.logger.Info("feedback recorded", "session", sessionID, "helpful", helpful, "rating", rating)
	return "Thanks — your feedback helps me improve.", true
}

// Snapshot is the stats view of the learning state.
type Snapshot struct {
	TotalInteractions int
	LearnedFeatures   int
	KnowledgeEntries  int
	AverageSuccess    float64
	FailedLast24h     int
	TopFeatures       []learning.FeatureCount
	Sessions          int
}

// Stats returns a consistent snapshot across the stores.
func (e *Engine) Stats() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	dayAgo := time.Now().UTC().Add(-24 * time.Hour)
	return Snapshot{
		TotalInteractions: e.log.Total(),
		LearnedFeatures:   e.learned.FeatureCount(),
		KnowledgeEntries:  e.kb.Size(),
		AverageSuccess:    e.kb.AverageSuccess(),
		FailedLast24h:     e.log.FailedSince(dayAgo),
		TopFeatures:       e.learned.TopFeatures(10),
		Sessions:          e.sessions.Size(),
	}
}

// TotalInteractions reports the interaction count without a full snapshot,
// for per-turn response metadata.
func (e *Engine) TotalInteractions() int {
	return e.log.Total()
}

// KnowledgeSize reports the catalog size for per-turn response metadata.
func (e *Engine) KnowledgeSize() int {
	return e.kb.Size()
}
