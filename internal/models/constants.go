package models

// Flat metadata keys used at the vector-store boundary.
const (
	MetaKeyType           = "type"
	MetaKeyCohortName     = "cohort_name"
	MetaKeySourceURL      = "source_url"
	MetaKeyField          = "field"
	MetaKeyCost           = "cost"
	MetaKeyBatchStartDate = "batch_start_date"
	MetaKeyCourseType     = "course_type"
	MetaKeyEMIOptions     = "emi_options"
	MetaKeyItemIndex      = "item_index"
	MetaKeyInstructors    = "instructors"
	MetaKeyMentors        = "mentors"
)

// Intent keywords, matched as substrings of the lowercased query.
// A batch-intent match moves batch chunks to the front of the
// retrieved set; a payment-intent match is applied after it and
// therefore wins when both trigger.
var (
	BatchIntentKeywords   = []string{"start", "date", "when", "cost", "price", "fee"}
	PaymentIntentKeywords = []string{"emi", "installment", "payment", "pay"}
)

// CourseKeyword maps a conversational mention of a course to its
// canonical cohort name.
type CourseKeyword struct {
	Keyword    string
	CourseName string
}

// CourseKeywords resolves "the course" style follow-ups: the first
// keyword found in the conversation history wins. Ordered, so keep
// more specific entries before their prefixes.
var CourseKeywords = []CourseKeyword{
	{"product management", "Product Management"},
	{"data analyst", "Data Analyst"},
	{"business analyst", "Business Analyst"},
	{"ui ux", "UI UX Design"},
	{"ui/ux", "UI UX Design"},
}

const (
	// NoRelevantInfoAnswer is returned when retrieval comes back empty.
	NoRelevantInfoAnswer = "I couldn't find relevant information to answer your question."

	// GenerationErrorAnswer wraps a non-rate-limit generation failure.
	// The pipeline never propagates generation errors to the caller.
	GenerationErrorAnswer = "I encountered an error while generating the answer. Please try again. Error: %s"

	// DateNotAvailableAnswer is used when no retrieved chunk carries a
	// batch start date.
	DateNotAvailableAnswer = "The batch start date is not currently available"
)

// AnswerPromptTemplate is the generation prompt. Slots: context text,
// history section (may be empty), user question, source URL.
const AnswerPromptTemplate = `You are a helpful FAQ assistant for our course catalog. Answer questions based ONLY on the provided context from the official course pages.

IMPORTANT RULES:
1. Answer ONLY using information from the provided context
2. If the information is not in the context, say "I don't have that information available"
3. Be concise and factual - no advice, only facts
4. Always mention the source URL at the end: Source: %[4]s
5. If asked about price, format it as ₹X,XXX
6. If asked about dates and the date is not available, clearly state that
7. Use conversation history to understand context - if the user says "the course" or "it", refer to the course from the previous conversation
8. If asked about EMI or payment options, provide ALL available EMI plans from the context

Context from the course pages:
%[1]s%[2]s

User Question: %[3]s

Answer (be concise and factual):`

// HistorySectionTemplate wraps prior turns when the session has any.
const HistorySectionTemplate = `

Previous Conversation:
%s

IMPORTANT: Use the previous conversation to understand context. If the user says 'the course' or 'it', they are referring to the course mentioned in the previous conversation.`
