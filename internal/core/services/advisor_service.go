package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/llm"
	"github.com/SscSPs/pocket_ledger_app/internal/metrics"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/aggregation"
	"github.com/shopspring/decimal"
)

const maxQuestionLength = 1000

type advisorService struct {
	BaseService
	ledger    portsrepo.LedgerRepositoryFacade
	completer llm.Completer
	templates *advisorTemplates
}

// NewAdvisorService creates the advisor. completer may be nil, in which case
// unrecognized questions get the help text.
func NewAdvisorService(ledger portsrepo.LedgerRepositoryFacade, completer llm.Completer, opts ...ServiceOption) portssvc.AdvisorSvc {
	return &advisorService{
		BaseService: newBaseService(opts...),
		ledger:      ledger,
		completer:   completer,
		templates:   defaultAdvisorTemplates,
	}
}

var _ portssvc.AdvisorSvc = (*advisorService)(nil)

type amountAnswer struct {
	Amount   decimal.Decimal
	Category string
}

type foodAdvice struct {
	Total      decimal.Decimal
	LastAmount decimal.Decimal
	LastDate   string
}

type savingsAdvice struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	SavingsRate   string
}

type budgetAdvice struct {
	MonthSpend  decimal.Decimal
	TopCategory string
}

type generalAdvice struct {
	Insights []domain.Insight
}

func (s *advisorService) Ask(ctx context.Context, owner, question string) (*domain.AdvisorReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", apperrors.ErrInvalidInput)
	}
	if len(question) > maxQuestionLength {
		return nil, fmt.Errorf("%w: question must be at most %d characters", apperrors.ErrInvalidInput, maxQuestionLength)
	}

	snap, err := loadLedgerSnapshot(ctx, s.ledger, owner)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for advisor")
		return nil, err
	}

	categories := make([]string, 0)
	for _, c := range aggregation.ByCategory(snap.expenses) {
		categories = append(categories, c.Category)
	}
	intent := ClassifyIntent(question, categories)

	reply, err := s.answer(ctx, intent, question, snap)
	if err != nil {
		return nil, err
	}
	metrics.AdvisorQuestions.WithLabelValues(reply.Intent, string(reply.Source)).Inc()
	return reply, nil
}

func (s *advisorService) answer(ctx context.Context, intent domain.Intent, question string, snap ledgerSnapshot) (*domain.AdvisorReply, error) {
	reply := &domain.AdvisorReply{Intent: intent.Name(), Source: domain.ReplyFromTemplate}
	now := s.Now()

	var (
		name string
		data any
	)
	switch in := intent.(type) {
	case domain.Unrecognized:
		if s.completer == nil || (len(snap.expenses) == 0 && len(snap.income) == 0) {
			name = "help"
			break
		}
		return s.askLLM(ctx, reply, question, snap)
	case domain.SpendQuery:
		name, data = "answers."+in.Name(), amountAnswer{Amount: categoryTotal(snap.expenses, in.Category), Category: in.Category}
	case domain.IncomeQuery:
		name, data = "answers."+in.Name(), amountAnswer{Amount: aggregation.Total(snap.income)}
	case domain.MonthlySpendQuery:
		name, data = "answers."+in.Name(), amountAnswer{Amount: aggregation.MonthTotal(snap.expenses, now)}
	case domain.AdviceQuery:
		name, data = s.advice(in.Topic, snap, now)
	default:
		return nil, fmt.Errorf("unhandled advisor intent %T", intent)
	}

	if len(snap.expenses) == 0 && len(snap.income) == 0 {
		name, data = "no_transactions", nil
	}

	text, err := s.templates.render(name, data)
	if err != nil {
		s.LogError(ctx, err, "Failed to render advisor answer", slog.String("template", name))
		return nil, err
	}
	reply.Answer = text
	return reply, nil
}

func (s *advisorService) askLLM(ctx context.Context, reply *domain.AdvisorReply, question string, snap ledgerSnapshot) (*domain.AdvisorReply, error) {
	summary := summarize(snap, "", s.Now())
	patterns := aggregation.DetectPatterns(snap.expenses)

	answer, err := s.completer.Complete(ctx, question, FormatFinancialContext(summary, &patterns))
	if err == nil {
		reply.Answer = answer
		reply.Source = domain.ReplyFromLLM
		return reply, nil
	}

	kind := llm.KindOf(err)
	if kind == "" {
		if !errors.Is(err, apperrors.ErrCollaboratorUnavailable) {
			s.LogError(ctx, err, "Advisor completion failed")
			return nil, err
		}
		kind = llm.ConnectionError
	}
	metrics.CollaboratorFailures.WithLabelValues("llm", string(kind)).Inc()
	s.LogWarn(ctx, "LLM unavailable, answering with fallback", slog.String("kind", string(kind)), slog.String("error", err.Error()))

	text, renderErr := s.templates.render("fallback."+string(kind), nil)
	if renderErr != nil {
		return nil, renderErr
	}
	reply.Answer = text
	reply.Source = domain.ReplyFallback
	return reply, nil
}

func (s *advisorService) advice(topic string, snap ledgerSnapshot, now time.Time) (string, any) {
	switch topic {
	case TopicFood:
		var food []domain.Expense
		for _, e := range snap.expenses {
			if strings.EqualFold(e.Category, TopicFood) {
				food = append(food, e)
			}
		}
		if len(food) == 0 {
			return "advice.food_empty", nil
		}
		// snap.expenses is in (date, id) order, so the last one is the latest.
		last := food[len(food)-1]
		return "advice.food", foodAdvice{
			Total:      aggregation.Total(food),
			LastAmount: last.Amount,
			LastDate:   last.OccurredOn.Format(domain.DateLayout),
		}
	case TopicSavings:
		income, expenses := aggregation.Total(snap.income), aggregation.Total(snap.expenses)
		return "advice.savings", savingsAdvice{
			TotalIncome:   income,
			TotalExpenses: expenses,
			SavingsRate:   aggregation.SavingsRate(income, expenses).Mul(decimal.NewFromInt(100)).StringFixed(1),
		}
	case TopicBudget:
		thisMonth := aggregation.FilterMonth(snap.expenses, domain.YearMonth(now))
		top, _ := aggregation.TopCategory(thisMonth)
		return "advice.budget", budgetAdvice{MonthSpend: aggregation.Total(thisMonth), TopCategory: top}
	default:
		return "advice.general", generalAdvice{Insights: aggregation.BudgetInsights(aggregation.DetectPatterns(snap.expenses))}
	}
}

func categoryTotal(expenses []domain.Expense, category string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if strings.EqualFold(e.Category, category) {
			total = total.Add(e.Amount)
		}
	}
	return total
}
