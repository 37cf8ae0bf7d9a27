package domain

// Intent is the closed set of advisor question kinds.
type Intent interface {
	// Name is a stable identifier used in responses and metrics.
	Name() string
	isIntent()
}

// SpendQuery asks how much was spent on one category.
type SpendQuery struct {
	Category string
}

// IncomeQuery asks for total recorded income.
type IncomeQuery struct{}

// MonthlySpendQuery asks for this month's spend.
type MonthlySpendQuery struct{}

// AdviceQuery asks for saving advice on a topic.
type AdviceQuery struct {
	Topic string
}

// Unrecognized is any question the classifier cannot place.
type Unrecognized struct{}

func (SpendQuery) Name() string        { return "spend_query" }
func (IncomeQuery) Name() string       { return "income_query" }
func (MonthlySpendQuery) Name() string { return "monthly_spend_query" }
func (AdviceQuery) Name() string       { return "advice_query" }
func (Unrecognized) Name() string      { return "unrecognized" }

func (SpendQuery) isIntent()        {}
func (IncomeQuery) isIntent()       {}
func (MonthlySpendQuery) isIntent() {}
func (AdviceQuery) isIntent()       {}
func (Unrecognized) isIntent()      {}

// ReplySource says where an advisor answer came from.
type ReplySource string

const (
	ReplyFromTemplate ReplySource = "template"
	ReplyFromLLM      ReplySource = "llm"
	ReplyFallback     ReplySource = "fallback"
)

// AdvisorReply is the answer to one advisor question.
type AdvisorReply struct {
	Intent string      `json:"intent"`
	Answer string      `json:"answer"`
	Source ReplySource `json:"source"`
}
