package knowledge

import (
	"regexp"
	"time"
)

// Well-known entry ids the engine routes fast intents to.
const (
	EntryPrograms    = "programs"
	EntryAdmissions  = "admissions"
	EntryPricing     = "pricing"
	EntrySupport     = "support"
	EntryEligibility = "eligibility"
)

// Seed returns the fixed topic catalog. Statistics start at a neutral 0.5
// success rate and zero usage.
func Seed() []*Entry {
	now := time.Now().UTC()
	entries := []*Entry{
		{
			ID:       "greeting",
			Keywords: []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^(hello|hi|hey)\b`),
				regexp.MustCompile(`(?i)^good (morning|afternoon|evening)`),
			},
			Response: "Hello! Welcome to NovaEd Consulting. I can help you explore programs, " +
				"admission requirements, costs, and scholarship eligibility. What would you like to know?",
			Category:   "greeting",
			Confidence: 0.9,
			FollowUps: []string{
				"Are you looking at undergraduate or postgraduate study?",
			},
		},
		{
			ID: EntryPrograms,
			Keywords: []string{
				"course", "courses", "program", "programs", "degree", "study",
				"bachelor", "master", "masters", "mba", "diploma",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)what.*(courses?|programs?|degrees?)`),
				regexp.MustCompile(`(?i)(courses?|programs?).*(offer|available)`),
			},
			Response: "We place students into a wide range of programs:\n\n" +
				"• Undergraduate degrees — business, engineering, computer science, design\n" +
				"• Postgraduate degrees — MBA, data science, finance, public health\n" +
				"• Pathway and foundation programs for students changing fields\n\n" +
				"Every placement starts with a profile review so we recommend programs " +
				"you are genuinely competitive for.",
			Category:   "programs",
			Confidence: 0.8,
			FollowUps: []string{
				"Which field are you most interested in?",
				"Would you like a shortlist matched to your profile?",
			},
		},
		{
			ID: "specializations",
			Keywords: []string{
				"specialization", "specialisation", "major", "field", "concentration",
				"engineering", "business", "computer", "data", "medicine", "law", "design",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(specializ|specialis)`),
				regexp.MustCompile(`(?i)which (major|field)`),
			},
			Response: "Popular specializations among our students:\n\n" +
				"• Data science and AI — strongest graduate outcomes right now\n" +
				"• Engineering — mechanical, civil, and software tracks\n" +
				"• Business and finance — including one-year intensive MBAs\n" +
				"• Design and media — portfolio-driven admissions\n\n" +
				"We match specializations to your academic background and career goals " +
				"during a free counselling session.",
			Category:   "programs",
			Confidence: 0.7,
			FollowUps: []string{
				"Do you already have a field in mind?",
			},
		},
		{
			ID: EntryPricing,
			Keywords: []string{
				"price", "cost", "fee", "fees", "tuition", "payment", "pay",
				"expensive", "afford", "budget", "installment",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)how much`),
				regexp.MustCompile(`(?i)(cost|price|fee)s?\b`),
			},
			Response: "Our service packages:\n\n" +
				"• Profile evaluation — free\n" +
				"• Standard package (5 university applications) — $900\n" +
				"• Premium package (applications + visa + scholarship support) — $1,500\n\n" +
				"Tuition itself varies by destination; most of our students pay between " +
				"$8,000 and $25,000 per year before scholarships. Payment plans are available.",
			Category:   "pricing",
			Confidence: 0.85,
			FollowUps: []string{
				"Would you like to check your scholarship eligibility? Just share your GPA.",
			},
		},
		{
			ID: EntryAdmissions,
			Keywords: []string{
				"admission", "admissions", "apply", "application", "enroll", "enrollment",
				"requirements", "deadline", "documents", "transcript", "ielts", "toefl",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)how (do|can) i apply`),
				regexp.MustCompile(`(?i)(admission|application) (process|requirements?)`),
			},
			Response: "The admission process with us has four steps:\n\n" +
				"1. Profile review — transcripts, test scores, and goals\n" +
				"2. Shortlist — 5 to 8 universities matched to your profile\n" +
				"3. Applications — we prepare and submit documents with you\n" +
				"4. Offer and visa — we handle acceptance paperwork and visa filing\n\n" +
				"Typical documents: transcripts, a statement of purpose, two references, " +
				"and an English test score (IELTS or TOEFL).",
			Category:   "admissions",
			Confidence: 0.85,
			FollowUps: []string{
				"Which intake are you targeting — fall or spring?",
			},
		},
		{
			ID: EntrySupport,
			Keywords: []string{
				"help", "support", "contact", "phone", "email", "reach", "talk", "advisor", "counsellor",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(talk|speak) to (someone|a (human|person|advisor))`),
				regexp.MustCompile(`(?i)contact (you|us|details)`),
			},
			Response: "You can reach our advisors directly:\n\n" +
				"• Phone: +1 (555) 014-2200, Monday to Saturday, 9am–6pm\n" +
				"• Email: advisors@novaed-consulting.example\n" +
				"• Walk-in: 40 Harbor Lane, Suite 300\n\n" +
				"Or leave your number here and an advisor will call you back within one business day.",
			Category:   "support",
			Confidence: 0.8,
		},
		{
			ID: "about",
			Keywords: []string{
				"about", "company", "consultancy", "who are you", "experience", "years", "trust", "legit",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)who are you`),
				regexp.MustCompile(`(?i)about (your )?(company|consultancy|novaed)`),
			},
			Response: "NovaEd Consulting has guided students through international admissions " +
				"since 2011. We have placed over 4,000 students across 11 countries, and we " +
				"are certified education agents for every university we represent. " +
				"Counselling is free — we only charge for application packages.",
			Category:   "company",
			Confidence: 0.7,
		},
		{
			ID: "careers",
			Keywords: []string{
				"career", "careers", "job", "jobs", "placement", "salary", "employment",
				"work", "outcomes", "alumni", "internship",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(job|career|employment) (prospects|outcomes|opportunities)`),
				regexp.MustCompile(`(?i)after (graduation|graduating)`),
			},
			Response: "Career outcomes from our placements:\n\n" +
				"• 87% of our graduates are employed within 6 months of finishing\n" +
				"• Data science and engineering graduates report the highest starting salaries\n" +
				"• Most destinations offer 1–3 year post-study work visas\n\n" +
				"We run CV and interview workshops for students in their final year at no charge.",
			Category:   "careers",
			Confidence: 0.7,
			FollowUps: []string{
				"Would you like outcome numbers for a specific field?",
			},
		},
		{
			ID: EntryEligibility,
			Keywords: []string{
				"gpa", "grade", "grades", "scholarship", "eligibility", "eligible", "qualify", "merit",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(scholarship|award).*(eligib|qualify)`),
				regexp.MustCompile(`(?i)\bgpa\b`),
			},
			Response: "Scholarship awards are tiered by academic record. Share your GPA " +
				"(for example \"my GPA is 3.6\" or \"8.2 out of 10\") and I can tell you " +
				"immediately which award tier you qualify for.",
			Category:   "eligibility",
			Confidence: 0.75,
		},
	}

	for _, e := range entries {
		e.SuccessRate = 0.5
		e.CreatedAt = now
	}
	return entries
}
