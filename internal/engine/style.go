package engine

import (
	"math/rand"
	"strings"
	"unicode"

	"github.com/NovaEd-Consulting/atlas/internal/session"
)

// adaptResponse applies the session's style preference to a response copy.
// The stored catalog and learned texts are never mutated.
func adaptResponse(text string, style session.Style, rng *rand.Rand) string {
	switch style {
	case session.StyleConcise:
		return conciseResponse(text)
	case session.StyleConversational:
		return conversationalLeadIns[rng.Intn(len(conversationalLeadIns))] + " " + text
	default:
		// detailed or no preference: unchanged
		return text
	}
}

// decorative markup stripped in concise mode
var decorativeRunes = map[rune]bool{
	'*': true, '#': true, '_': true, '~': true, '•': true, '>': true,
}

// conciseResponse strips decorative symbols and keeps the first five
// non-blank lines.
func conciseResponse(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if decorativeRunes[r] || unicode.Is(unicode.So, r) {
			return -1
		}
		return r
	}, text)

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 5 {
			break
		}
	}
	return strings.Join(lines, "\n")
}
