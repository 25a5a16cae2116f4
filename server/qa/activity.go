package qa

// XP credited for Q&A activity.
const (
	QuestionAskedXP   = 5
	OpinionPostedXP   = 10
	OpinionAcceptedXP = 50
)

// Reasons recorded on the XP ledger.
const (
	ReasonQuestionAsked   = "question_asked"
	ReasonOpinionPosted   = "opinion_posted"
	ReasonOpinionAccepted = "opinion_accepted"
)
