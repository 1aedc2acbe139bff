// Package intent holds the declarative rule tables for fast message
// classification. Predicates here are boolean checks over raw text; scoring
// and orchestration live in the engine so these tables can grow without
// touching the matching algorithm.
package intent

import (
	"regexp"
	"strings"

	"github.com/NovaEd-Consulting/atlas/internal/knowledge"
	"github.com/NovaEd-Consulting/atlas/internal/session"
)

var greetingWords = []string{"hello", "hi", "hey", "greetings", "howdy"}

var timeGreetingPattern = regexp.MustCompile(`^good (morning|afternoon|evening|day)\b`)

var questionWords = []string{
	"what", "which", "how", "when", "where", "why", "who",
	"can", "could", "do", "does", "is", "are", "will",
}

var priceWords = []string{
	"price", "cost", "costs", "fee", "fees", "tuition", "payment",
	"expensive", "cheap", "afford", "budget",
}

var complaintWords = []string{
	"problem", "issue", "complaint", "complain", "wrong", "error",
	"terrible", "awful", "disappointed", "unhappy", "not working", "broken",
}

var academicScoreWords = []string{"gpa", "grade", "grades", "cgpa"}

// topicRules route question-shaped messages straight to a catalog entry.
// First matching rule wins.
var topicRules = []struct {
	entryID  string
	keywords []string
}{
	{knowledge.EntryPrograms, []string{"course", "program", "degree", "study", "bachelor", "master", "mba"}},
	{knowledge.EntryAdmissions, []string{"admission", "apply", "application", "enroll", "requirement", "deadline", "document"}},
}

// styleRules map signal words to a response-style preference. Last signal in
// the table order wins within one message; across messages the most recent
// message wins.
var styleRules = []struct {
	style session.Style
	words []string
}{
	{session.StyleConcise, []string{"brief", "short", "quick answer", "summarize"}},
	{session.StyleDetailed, []string{"detail", "details", "detailed", "explain more", "elaborate"}},
	{session.StyleConversational, []string{"casual", "friendly", "informal"}},
}

// interestRules map message substrings to canonical interest tags. Rule order
// fixes the order tags are reported in.
var interestRules = []struct {
	keyword string
	tag     string
}{
	{"engineering", "engineering"},
	{"business", "business"},
	{"mba", "business"},
	{"computer", "computer science"},
	{"programming", "computer science"},
	{"data science", "data science"},
	{"data", "data science"},
	{"design", "design"},
	{"medicine", "medicine"},
	{"medical", "medicine"},
	{"law", "law"},
	{"finance", "finance"},
	{"marketing", "marketing"},
	{"psychology", "psychology"},
	{"scholarship", "scholarships"},
}

var enrollingWords = []string{"apply", "enroll", "enrol", "admission form", "sign up"}

var decidingWords = []string{"price", "cost", "fee", "tuition"}

// IsGreeting reports whether the message opens with a greeting word or a
// time-of-day greeting.
func IsGreeting(message string) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	if timeGreetingPattern.MatchString(m) {
		return true
	}
	first := m
	if i := strings.IndexFunc(m, func(r rune) bool {
		return r == ' ' || r == ',' || r == '!' || r == '.' || r == '?'
	}); i >= 0 {
		first = m[:i]
	}
	for _, w := range greetingWords {
		if first == w {
			return true
		}
	}
	return false
}

// IsQuestion reports whether the message contains a question mark or a
// question word.
func IsQuestion(message string) bool {
	if strings.Contains(message, "?") {
		return true
	}
	return containsWord(message, questionWords)
}

// TopicFor returns the catalog entry a question-shaped message should route
// to, if any rule matches.
func TopicFor(message string) (string, bool) {
	m := strings.ToLower(message)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(m, kw) {
				return rule.entryID, true
			}
		}
	}
	return "", false
}

// AsksPricing reports whether the message uses price vocabulary.
func AsksPricing(message string) bool {
	return containsWord(message, priceWords)
}

// IsComplaint reports whether the message uses problem or complaint
// vocabulary.
func IsComplaint(message string) bool {
	m := strings.ToLower(message)
	for _, w := range complaintWords {
		if strings.Contains(m, w) {
			return true
		}
	}
	return false
}

// MentionsAcademicScore reports whether the message references a GPA or
// grade, which flags it for structured-fact handling.
func MentionsAcademicScore(message string) bool {
	return containsWord(message, academicScoreWords)
}

// StyleSignal returns the response style the message asks for, if any.
func StyleSignal(message string) (session.Style, bool) {
	m := strings.ToLower(message)
	for _, rule := range styleRules {
		for _, w := range rule.words {
			if strings.Contains(m, w) {
				return rule.style, true
			}
		}
	}
	return "", false
}

// Interests returns the canonical interest tags mentioned in the message, in
// rule-table order.
func Interests(message string) []string {
	m := strings.ToLower(message)
	var out []string
	seen := make(map[string]bool)
	for _, rule := range interestRules {
		if strings.Contains(m, rule.keyword) && !seen[rule.tag] {
			seen[rule.tag] = true
			out = append(out, rule.tag)
		}
	}
	return out
}

// StageSignal returns the funnel stage the message moves the session to, if
// it carries an explicit signal. Enrolment intent outranks price interest.
func StageSignal(message string) (session.Stage, bool) {
	m := strings.ToLower(message)
	for _, w := range enrollingWords {
		if strings.Contains(m, w) {
			return session.StageEnrolling, true
		}
	}
	for _, w := range decidingWords {
		if strings.Contains(m, w) {
			return session.StageDeciding, true
		}
	}
	return "", false
}

// containsWord checks for whole-word membership of any of words in message,
// case-insensitively.
func containsWord(message string, words []string) bool {
	m := strings.ToLower(message)
	fields := strings.FieldsFunc(m, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}
