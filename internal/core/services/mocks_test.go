package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Transaction manager ---

// MockTxManager runs fn inline; it records how many transactions were opened.
type MockTxManager struct {
	Calls int
}

func (m *MockTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

// --- Identity ---

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) SaveIdentity(ctx context.Context, identity domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) RevokeSession(ctx context.Context, sessionID, owner string, at time.Time) error {
	args := m.Called(ctx, sessionID, owner, at)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeAllSessions(ctx context.Context, owner string, at time.Time) (int64, error) {
	args := m.Called(ctx, owner, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// --- Ledger ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ListExpenses(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.ExpensePage, error) {
	args := m.Called(ctx, owner, filter)
	return args.Get(0).(domain.ExpensePage), args.Error(1)
}

func (m *MockLedgerRepository) SumExpenses(ctx context.Context, owner, yearMonth string) (decimal.Decimal, error) {
	args := m.Called(ctx, owner, yearMonth)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) SaveExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	args := m.Called(ctx, expense)
	return args.Get(0).(domain.Expense), args.Error(1)
}

func (m *MockLedgerRepository) DeleteExpense(ctx context.Context, owner string, expenseID int64) error {
	args := m.Called(ctx, owner, expenseID)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteExpenses(ctx context.Context, owner, yearMonth string) (int64, error) {
	args := m.Called(ctx, owner, yearMonth)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ListIncome(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.IncomePage, error) {
	args := m.Called(ctx, owner, filter)
	return args.Get(0).(domain.IncomePage), args.Error(1)
}

func (m *MockLedgerRepository) SaveIncome(ctx context.Context, income domain.Income) (domain.Income, error) {
	args := m.Called(ctx, income)
	return args.Get(0).(domain.Income), args.Error(1)
}

func (m *MockLedgerRepository) DeleteIncome(ctx context.Context, owner string, incomeID int64) error {
	args := m.Called(ctx, owner, incomeID)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteIncomeRows(ctx context.Context, owner, yearMonth string) (int64, error) {
	args := m.Called(ctx, owner, yearMonth)
	return args.Get(0).(int64), args.Error(1)
}

// --- Groups ---

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}

func (m *MockGroupRepository) ListGroupsForMember(ctx context.Context, member string) ([]domain.Group, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupRepository) InsertGroupIfAbsent(ctx context.Context, group domain.Group) (bool, error) {
	args := m.Called(ctx, group)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, membership domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockGroupRepository) SaveSharedExpense(ctx context.Context, expense domain.SharedExpense) (domain.SharedExpense, error) {
	args := m.Called(ctx, expense)
	return args.Get(0).(domain.SharedExpense), args.Error(1)
}

func (m *MockGroupRepository) ListSharedExpenses(ctx context.Context, groupID int64) ([]domain.SharedExpense, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SharedExpense), args.Error(1)
}

func (m *MockGroupRepository) ListSharedExpensesByGroupName(ctx context.Context, name string) ([]domain.SharedExpense, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SharedExpense), args.Error(1)
}

// --- Rewards ---

type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) IncrementPoints(ctx context.Context, owner string, delta int64) (int64, error) {
	args := m.Called(ctx, owner, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRewardRepository) GetPoints(ctx context.Context, owner string) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRewardRepository) SaveBadge(ctx context.Context, badge domain.Badge) (domain.Badge, error) {
	args := m.Called(ctx, badge)
	return args.Get(0).(domain.Badge), args.Error(1)
}

func (m *MockRewardRepository) ListBadges(ctx context.Context, owner string) ([]domain.Badge, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Badge), args.Error(1)
}

func (m *MockRewardRepository) HasBudgetAward(ctx context.Context, owner, badge, period string) (bool, error) {
	args := m.Called(ctx, owner, badge, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockRewardRepository) InsertBudgetAward(ctx context.Context, owner, badge, period string, at int64) error {
	args := m.Called(ctx, owner, badge, period, at)
	return args.Error(0)
}

// --- Collaborators ---

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, question, financialContext string) (string, error) {
	args := m.Called(ctx, question, financialContext)
	return args.String(0), args.Error(1)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractText(ctx context.Context, filename string, image []byte) (string, error) {
	args := m.Called(ctx, filename, image)
	return args.String(0), args.Error(1)
}

// fixedClock pins "now" for services built with services.WithClock.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
