package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/core/services"
	"github.com/SscSPs/pocket_ledger_app/internal/llm"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestClassifyIntent(t *testing.T) {
	categories := []string{"rent", "Food", "food court"}

	tests := []struct {
		question string
		want     domain.Intent
	}{
		{"How much did I spend this month?", domain.MonthlySpendQuery{}},
		{"what have I spent in the current month on food", domain.MonthlySpendQuery{}},
		{"How much did I spend on FOOD?", domain.SpendQuery{Category: "Food"}},
		{"How much have I spent on rent", domain.SpendQuery{Category: "rent"}},
		{"How much did I earn?", domain.IncomeQuery{}},
		{"show my income", domain.IncomeQuery{}},
		{"how much did I spend on travel", domain.Unrecognized{}},
		{"Any dining advice?", domain.AdviceQuery{Topic: services.TopicFood}},
		{"How can I save more?", domain.AdviceQuery{Topic: services.TopicSavings}},
		{"tips for saving", domain.AdviceQuery{Topic: services.TopicSavings}},
		{"Help me with my budget", domain.AdviceQuery{Topic: services.TopicBudget}},
		{"Give me a tip", domain.AdviceQuery{Topic: services.TopicGeneral}},
		{"Should I buy a car?", domain.Unrecognized{}},
		{"", domain.Unrecognized{}},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ClassifyIntent(tt.question, categories))
		})
	}
}

func TestFormatFinancialContext(t *testing.T) {
	summary := &domain.FinancialSummary{
		TotalExpenses:  dec("1450.50"),
		TotalIncome:    dec("5000"),
		NetBalance:     dec("3549.50"),
		ExpenseCount:   3,
		IncomeCount:    1,
		AverageExpense: dec("483.50"),
		AverageIncome:  dec("5000"),
		TopCategory:    "rent",
		Categories: []domain.CategoryTotal{
			{Category: "rent", Total: dec("1200")},
			{Category: "food", Total: dec("250.50")},
		},
	}
	patterns := &domain.SpendingPatterns{PeakSpendingDay: "Friday", SpendingTrend: 1.25, TopCategory: "rent"}

	newGoldie(t).Assert(t, "financial_context", []byte(services.FormatFinancialContext(summary, patterns)))

	assert.Empty(t, services.FormatFinancialContext(nil, nil))
	assert.Empty(t, services.FormatFinancialContext(&domain.FinancialSummary{}, patterns), "patterns need expenses")
}

type AdvisorServiceTestSuite struct {
	suite.Suite
	ledger    *MockLedgerRepository
	completer *MockCompleter
	now       time.Time
	ctx       context.Context
}

func (suite *AdvisorServiceTestSuite) SetupTest() {
	suite.ledger = new(MockLedgerRepository)
	suite.completer = new(MockCompleter)
	suite.now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	suite.ctx = context.Background()
}

func TestAdvisorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdvisorServiceTestSuite))
}

func (suite *AdvisorServiceTestSuite) withLedger(expenses []domain.Expense, income []domain.Income) {
	suite.ledger.On("ListExpenses", mock.Anything, owner, domain.LedgerFilter{}).Return(domain.ExpensePage{Expenses: expenses}, nil)
	suite.ledger.On("ListIncome", mock.Anything, owner, domain.LedgerFilter{}).Return(domain.IncomePage{Income: income}, nil)
}

func (suite *AdvisorServiceTestSuite) withSampleLedger() {
	suite.withLedger([]domain.Expense{
		{ExpenseID: 1, Category: "food", Amount: dec("100"), OccurredOn: day("2024-02-10")},
		{ExpenseID: 2, Category: "rent", Amount: dec("1200"), OccurredOn: day("2024-03-01")},
		{ExpenseID: 3, Category: "food", Amount: dec("250.50"), OccurredOn: day("2024-03-08")},
	}, []domain.Income{
		{IncomeID: 1, Source: "salary", Amount: dec("5000"), OccurredOn: day("2024-03-01")},
	})
}

func (suite *AdvisorServiceTestSuite) service(withCompleter bool) portssvc.AdvisorSvc {
	var completer llm.Completer
	if withCompleter {
		completer = suite.completer
	}
	return services.NewAdvisorService(suite.ledger, completer, services.WithClock(fixedClock(suite.now)))
}

func (suite *AdvisorServiceTestSuite) TestTemplateAnswers() {
	suite.withSampleLedger()
	svc := suite.service(false)

	tests := []struct {
		question string
		intent   string
		answer   string
	}{
		{"How much did I spend on Food?", "spend_query", "You spent **₹350.50** on food so far."},
		{"What did I spend this month?", "monthly_spend_query", "You spent **₹1,450.50** this month."},
		{"How much did I earn?", "income_query", "Your total recorded income is **₹5,000.00**."},
	}
	for _, tt := range tests {
		reply, err := svc.Ask(suite.ctx, owner, tt.question)
		suite.Require().NoError(err)
		suite.Equal(tt.intent, reply.Intent)
		suite.Equal(tt.answer, reply.Answer)
		suite.Equal(domain.ReplyFromTemplate, reply.Source)
	}
}

func (suite *AdvisorServiceTestSuite) TestAdviceAnswers() {
	suite.withSampleLedger()
	svc := suite.service(false)

	budget, err := svc.Ask(suite.ctx, owner, "How do I stick to my budget?")
	suite.Require().NoError(err)
	suite.Equal("advice_query", budget.Intent)
	newGoldie(suite.T()).Assert(suite.T(), "advice_budget", []byte(budget.Answer))

	savings, err := svc.Ask(suite.ctx, owner, "Any tips to save money?")
	suite.Require().NoError(err)
	suite.Contains(savings.Answer, "Your savings rate is **69.0%**.")

	food, err := svc.Ask(suite.ctx, owner, "dining ideas please")
	suite.Require().NoError(err)
	suite.Contains(food.Answer, "Your last food expense was **₹250.50** on 2024-03-08.")
	suite.Contains(food.Answer, "Total spent on food: **₹350.50**")
}

func (suite *AdvisorServiceTestSuite) TestNoTransactions() {
	suite.withLedger(nil, nil)

	reply, err := suite.service(true).Ask(suite.ctx, owner, "How much did I spend on food?")

	suite.Require().NoError(err)
	suite.Equal("I don't see any transactions yet. Start logging some!", reply.Answer)
	suite.completer.AssertNotCalled(suite.T(), "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AdvisorServiceTestSuite) TestUnrecognizedWithoutCompleterGetsHelp() {
	suite.withSampleLedger()

	reply, err := suite.service(false).Ask(suite.ctx, owner, "Should I buy a car?")

	suite.Require().NoError(err)
	suite.Equal("unrecognized", reply.Intent)
	suite.Contains(reply.Answer, "Here are a few things you can ask me")
}

func (suite *AdvisorServiceTestSuite) TestUnrecognizedAsksLLM() {
	suite.withSampleLedger()
	suite.completer.On("Complete", mock.Anything, "Should I buy a car?", mock.MatchedBy(func(ctx string) bool {
		return assert.Contains(suite.T(), ctx, "Total spent ₹1,550.50 across 3 transactions.") &&
			assert.Contains(suite.T(), ctx, "Total income: ₹5,000.00 from 1 sources.")
	})).Return("Not this month.", nil).Once()

	reply, err := suite.service(true).Ask(suite.ctx, owner, "Should I buy a car?")

	suite.Require().NoError(err)
	suite.Equal("Not this month.", reply.Answer)
	suite.Equal(domain.ReplyFromLLM, reply.Source)
}

func (suite *AdvisorServiceTestSuite) TestLLMFailuresFallBack() {
	suite.withSampleLedger()

	tests := []struct {
		err    error
		answer string
	}{
		{&llm.Failure{Kind: llm.RateLimited, Status: 429}, "⏳ The assistant is busy. Please try again later."},
		{&llm.Failure{Kind: llm.Timeout, Err: context.DeadlineExceeded}, "⏰ The assistant took too long to answer. Please try again."},
		{fmt.Errorf("dial: %w", apperrors.ErrCollaboratorUnavailable), "🌐 Could not reach the assistant. Check your connection and try again."},
	}
	for _, tt := range tests {
		suite.completer.On("Complete", mock.Anything, "Should I buy a car?", mock.Anything).Return("", tt.err).Once()

		reply, err := suite.service(true).Ask(suite.ctx, owner, "Should I buy a car?")

		suite.Require().NoError(err)
		suite.Equal(domain.ReplyFallback, reply.Source)
		suite.Equal(tt.answer, reply.Answer)
	}
}

func (suite *AdvisorServiceTestSuite) TestUnexpectedCompleterErrorIsReturned() {
	suite.withSampleLedger()
	boom := errors.New("programming error")
	suite.completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", boom).Once()

	_, err := suite.service(true).Ask(suite.ctx, owner, "Should I buy a car?")

	suite.ErrorIs(err, boom)
}

func (suite *AdvisorServiceTestSuite) TestQuestionValidation() {
	svc := suite.service(false)

	_, err := svc.Ask(suite.ctx, owner, "   ")
	suite.ErrorIs(err, apperrors.ErrInvalidInput)

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Ask(suite.ctx, owner, string(long))
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.ledger.AssertNotCalled(suite.T(), "ListExpenses", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvisorLedgerErrorPropagates(t *testing.T) {
	ledger := new(MockLedgerRepository)
	boom := errors.New("db gone")
	ledger.On("ListExpenses", mock.Anything, owner, domain.LedgerFilter{}).Return(domain.ExpensePage{}, boom)
	ledger.On("ListIncome", mock.Anything, owner, domain.LedgerFilter{}).Return(domain.IncomePage{}, nil)

	_, err := services.NewAdvisorService(ledger, nil).Ask(context.Background(), owner, "How much did I earn?")

	require.ErrorIs(t, err, boom)
}
