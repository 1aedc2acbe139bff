package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/NovaEd-Consulting/atlas/internal/learning"
)

// ChatRequest is the single request contract for the chat endpoint. The
// action field selects between a normal turn, a feedback submission, and a
// stats snapshot.
type ChatRequest struct {
	Message      string           `json:"message"`
	SessionID    string           `json:"sessionId"`
	Action       string           `json:"action,omitempty"`
	Feedback     *FeedbackPayload `json:"feedback,omitempty"`
	MessageIndex *int             `json:"messageIndex,omitempty"`
}

// FeedbackPayload carries a helpfulness signal and an optional rating.
type FeedbackPayload struct {
	WasHelpful *bool `json:"wasHelpful,omitempty"`
	Rating     *int  `json:"rating,omitempty"`
}

// LearningMeta reports the assistant's learning state alongside each reply.
type LearningMeta struct {
	TotalInteractions int  `json:"totalInteractions"`
	KnowledgeSize     int  `json:"knowledgeSize"`
	IsLearning        bool `json:"isLearning"`
}

// RequestMeta echoes request facts back to the caller.
type RequestMeta struct {
	SessionID   string `json:"sessionId"`
	InputLength int    `json:"inputLength"`
}

// ChatResponse is a normal-turn reply.
type ChatResponse struct {
	Reply      string       `json:"reply"`
	Timestamp  string       `json:"timestamp"`
	Confidence string       `json:"confidence"`
	Learning   LearningMeta `json:"learning"`
	Meta       RequestMeta  `json:"meta"`
}

// FeedbackResponse reports the outcome of an explicit feedback submission.
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatsResponse is the stats-action snapshot.
type StatsResponse struct {
	TotalInteractions    int                     `json:"totalInteractions"`
	LearnedFeatures      int                     `json:"learnedFeatures"`
	KnowledgeEntries     int                     `json:"knowledgeEntries"`
	AverageSuccessRate   float64                 `json:"averageSuccessRate"`
	FailedQueriesLast24h int                     `json:"failedQueriesLast24h"`
	TopFeatures          []learning.FeatureCount `json:"topFeatures"`
}

// errorResponse is returned for malformed requests. The assistant keeps its
// conversational posture even on errors.
type errorResponse struct {
	Reply    string       `json:"reply"`
	Error    string       `json:"error"`
	Learning LearningMeta `json:"learning"`
}

const (
	emptyMessageReply = "I didn't catch a message there — please try again with a question " +
		"about programs, admissions, costs, or scholarships."
	technicalReply = "Sorry, I'm having technical difficulties with that request. " +
		"Please try again — I'm still here and still learning."
)

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.defaultSession
		s.warnDefault.Do(func() {
			s.logger.Warn("caller omitted sessionId; sharing the default session context",
				"session", sessionID)
		})
	}

	switch req.Action {
	case "", "chat":
		s.handleTurn(w, req, sessionID)
	case "feedback":
		s.handleFeedback(w, req, sessionID)
	case "stats":
		s.handleStats(w)
	default:
		s.writeError(w, http.StatusBadRequest, "unknown_action")
	}
}

func (s *Server) handleTurn(w http.ResponseWriter, req ChatRequest, sessionID string) {
	if strings.TrimSpace(req.Message) == "" {
		// Boundary validation: the engine never sees empty input.
		writeJSON(w, http.StatusOK, ChatResponse{
			Reply:      emptyMessageReply,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Confidence: "high",
			Learning:   s.learningMeta(),
			Meta:       RequestMeta{SessionID: sessionID, InputLength: 0},
		})
		return
	}

	var helpful *bool
	if req.Feedback != nil {
		helpful = req.Feedback.WasHelpful
	}

	res := s.engine.ProcessMessage(sessionID, req.Message, helpful)

	// Presentation delay proportional to output length. The engine has long
	// since released its locks by this point.
	if s.replyDelayUnit > 0 {
		delay := s.replyDelayUnit * time.Duration(len(res.Reply)/40+1)
		if delay > maxReplyDelay {
			delay = maxReplyDelay
		}
		time.Sleep(delay)
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Reply:      res.Reply,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Confidence: res.Confidence,
		Learning:   s.learningMeta(),
		Meta:       RequestMeta{SessionID: sessionID, InputLength: len(req.Message)},
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, req ChatRequest, sessionID string) {
	if req.MessageIndex == nil {
		writeJSON(w, http.StatusOK, FeedbackResponse{
			Success: false,
			Message: "feedback requires a messageIndex into this session's history",
		})
		return
	}

	helpful := false
	rating := 0
	if req.Feedback != nil {
		if req.Feedback.WasHelpful != nil {
			helpful = *req.Feedback.WasHelpful
		}
		if req.Feedback.Rating != nil {
			rating = *req.Feedback.Rating
		}
	}

	msg, ok := s.engine.SubmitFeedback(sessionID, *req.MessageIndex, helpful, rating)
	writeJSON(w, http.StatusOK, FeedbackResponse{Success: ok, Message: msg})
}

func (s *Server) handleStats(w http.ResponseWriter) {
	snap := s.engine.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{
		TotalInteractions:    snap.TotalInteractions,
		LearnedFeatures:      snap.LearnedFeatures,
		KnowledgeEntries:     snap.KnowledgeEntries,
		AverageSuccessRate:   snap.AverageSuccess,
		FailedQueriesLast24h: snap.FailedLast24h,
		TopFeatures:          snap.TopFeatures,
	})
}

func (s *Server) learningMeta() LearningMeta {
	return LearningMeta{
		TotalInteractions: s.engine.TotalInteractions(),
		KnowledgeSize:     s.engine.KnowledgeSize(),
		IsLearning:        true,
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, tag string) {
	writeJSON(w, code, errorResponse{
		Reply:    technicalReply,
		Error:    tag,
		Learning: s.learningMeta(),
	})
}
