// Package eligibility extracts an academic score from free text and turns it
// into a deterministic scholarship assessment. This is the one path in the
// assistant that computes rather than matches, so its output shape is fixed.
package eligibility

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Award tiers on the normalised 4.0 scale.
const (
	TierExcellence = "Academic Excellence"
	TierMerit      = "Academic Merit"
)

// Tier is a scholarship band: the award name and its percentage.
type Tier struct {
	Name    string
	Percent int
}

var (
	// A decimal number directly associated with the GPA/grade vocabulary,
	// on either side of the keyword. The value-before form must not start
	// right after a slash, or "3.4/4 gpa" would read the denominator as the
	// value; the slash form is handled by valueSlashPattern.
	valueAfterPattern  = regexp.MustCompile(`(?i)(?:gpa|cgpa|grade)\s*(?:is|of|was|:|=)?\s*(\d+(?:\.\d+)?)`)
	valueSlashPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)`)
	valueBeforePattern = regexp.MustCompile(`(?i)(?:^|[^/\d.])(\d+(?:\.\d+)?)\s*(?:gpa|cgpa)`)

	// An explicit denominator: "out of 10", "on a 5 scale", "3.8/4".
	scalePattern = regexp.MustCompile(`(?i)(?:out of|on a|scale of|/)\s*(\d+(?:\.\d+)?)`)
)

// ParseScore extracts (value, scale) from text. The scale defaults to 4.0
// when the text does not state one. Returns ok=false when no numeric value
// is associated with the GPA vocabulary.
func ParseScore(text string) (value, scale float64, ok bool) {
	var raw string
	if m := valueAfterPattern.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := valueSlashPattern.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := valueBeforePattern.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else {
		return 0, 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, 0, false
	}

	scale = 4.0
	if m := scalePattern.FindStringSubmatch(text); m != nil {
		if s, err := strconv.ParseFloat(m[1], 64); err == nil && s > 0 {
			scale = s
		}
	}
	return value, scale, true
}

// Normalize converts a score on an arbitrary scale to the 4.0 scale.
func Normalize(value, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return value / scale * 4.0
}

// TierFor maps a normalised score to its award tier. Returns ok=false below
// the 3.0 cutoff, which routes to the need-based alternatives.
func TierFor(normalized float64) (Tier, bool) {
	switch {
	case normalized >= 3.8:
		return Tier{Name: TierExcellence, Percent: 50}, true
	case normalized >= 3.5:
		return Tier{Name: TierExcellence, Percent: 30}, true
	case normalized >= 3.0:
		return Tier{Name: TierMerit, Percent: 15}, true
	default:
		return Tier{}, false
	}
}

// RenderAssessment produces the fixed multi-section assessment for a supplied
// score: headline, restatement, eligibility or alternatives block, the
// three-step getting-started list, and a closing question.
func RenderAssessment(value, scale float64) string {
	normalized := Normalize(value, scale)
	tier, eligible := TierFor(normalized)

	var b strings.Builder
	b.WriteString("Scholarship Assessment\n\n")
	b.WriteString(fmt.Sprintf("You told me your GPA is %s on a %s scale", trimFloat(value), trimFloat(scale)))
	if scale != 4.0 {
		b.WriteString(fmt.Sprintf(" — that's %s on the 4.0 scale we assess against", trimFloat(normalized)))
	}
	b.WriteString(".\n\n")

	if eligible {
		b.WriteString(fmt.Sprintf("Congratulations — you qualify for our %s award: %d%% off tuition for your first year.\n", tier.Name, tier.Percent))
		b.WriteString("Your academic record puts you in a strong position, and we can begin shortlisting universities that honour this award right away.\n")
	} else {
		b.WriteString("Your GPA falls below the academic award cutoff, but that does not close the door:\n")
		b.WriteString("• Need-based grants — assessed on family income, up to 40% of tuition\n")
		b.WriteString("• Merit alternatives — awards for leadership, sports, and community work\n")
		b.WriteString("• Early-bird discounts — reduced fees for applications before the deadline\n")
	}

	b.WriteString("\nGetting started:\n")
	b.WriteString("1. Book a free profile review with one of our advisors\n")
	b.WriteString("2. Gather your transcripts and test scores\n")
	b.WriteString("3. We shortlist universities and file your applications together\n\n")
	b.WriteString("Would you like help starting your application?")

	return b.String()
}

// ClarifyPrompt asks for the numeric value when the GPA topic is raised
// without one.
func ClarifyPrompt() string {
	return "I can check your scholarship eligibility — what is your GPA? " +
		"If it isn't on a 4.0 scale, include the scale, for example \"8.2 out of 10\"."
}

// trimFloat renders a float without trailing zeros: 4.0 → "4", 3.40 → "3.4".
func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
