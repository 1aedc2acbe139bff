package engine

// Fixed response sets. Random picks always go through the engine's injected
// rand source so tests can pin the outcome.

var greetings = []string{
	"Hello! Welcome to NovaEd Consulting. I can help with programs, admissions, " +
		"costs, and scholarships — what would you like to know?",
	"Hi! I'm the NovaEd admissions assistant. Ask me about programs, fees, or " +
		"how to apply.",
	"Hey there! Looking to study abroad? I can walk you through programs, " +
		"costs, and scholarship eligibility.",
}

const welcomeBack = "Welcome back! Happy to keep going — where were we? " +
	"I can pick up with programs, costs, or your application whenever you're ready."

var fallbacks = []string{
	"I'm still learning and I don't have a good answer for that yet. Could you " +
		"rephrase it, or ask me about programs, admissions, costs, or scholarships?",
	"I'm not sure I understood that one. I'm best with questions about programs, " +
		"the admission process, fees, and scholarship eligibility.",
	"That's outside what I know so far. Try asking about our programs, how to " +
		"apply, or what things cost — I'm solid on those.",
}

const escalationReply = "I've tried a few times and I clearly don't have what you need — " +
	"let me hand you to a human advisor.\n\n" +
	"• Phone: +1 (555) 014-2200, Monday to Saturday, 9am–6pm\n" +
	"• Email: advisors@novaed-consulting.example\n\n" +
	"Mention what you asked me and they'll pick it up from there."

const complaintReply = "I'm sorry you've run into trouble — that's not the experience " +
	"we want you to have. The fastest way to get this resolved is our support team: " +
	"call +1 (555) 014-2200 or email advisors@novaed-consulting.example and a " +
	"person will take it from here."

var conversationalLeadIns = []string{
	"Sure thing!",
	"Great question —",
	"Happy to help!",
	"Of course —",
}
