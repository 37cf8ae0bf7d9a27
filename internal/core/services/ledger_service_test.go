package services_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/core/services"
	"github.com/SscSPs/pocket_ledger_app/internal/events"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const owner = "alice@example.com"

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockLedgerRepository
	tx        *MockTxManager
	published *events.Recorder
	now       time.Time
	service   portssvc.LedgerSvcFacade
	ctx       context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerRepository)
	suite.tx = &MockTxManager{}
	suite.published = &events.Recorder{}
	suite.now = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	suite.ctx = context.Background()
	suite.service = services.NewLedgerService(suite.mockRepo, suite.tx, suite.published, services.WithClock(fixedClock(suite.now)))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_Success() {
	suite.mockRepo.On("SaveExpense", suite.ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Owner == owner && e.Category == "food" && e.Amount.Equal(dec("120.50")) && e.OccurredOn.Equal(day("2024-03-15"))
	})).Return(domain.Expense{ExpenseID: 7, Owner: owner, Category: "food", Amount: dec("120.50"), OccurredOn: day("2024-03-15")}, nil).Once()

	expense, err := suite.service.RecordExpense(suite.ctx, owner, "  food ", dec("120.50"), time.Time{})

	suite.Require().NoError(err)
	suite.Equal(int64(7), expense.ExpenseID)
	suite.Equal([]string{events.ExpenseRecorded}, suite.published.Types())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_ZeroAmountAllowed() {
	suite.mockRepo.On("SaveExpense", suite.ctx, mock.Anything).Return(domain.Expense{ExpenseID: 1}, nil).Once()

	_, err := suite.service.RecordExpense(suite.ctx, owner, "misc", dec("0"), day("2024-01-02"))

	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestRecordExpense_ValidationErrors() {
	_, err := suite.service.RecordExpense(suite.ctx, owner, "   ", dec("10"), time.Time{})
	suite.ErrorIs(err, apperrors.ErrInvalidInput)

	_, err = suite.service.RecordExpense(suite.ctx, owner, "food", dec("-1"), time.Time{})
	suite.ErrorIs(err, apperrors.ErrInvalidInput)

	_, err = suite.service.RecordExpense(suite.ctx, owner, strings.Repeat("x", 101), dec("1"), time.Time{})
	suite.ErrorIs(err, apperrors.ErrInvalidInput)

	_, err = suite.service.RecordExpense(suite.ctx, owner, "food", dec("0.005"), time.Time{})
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.ErrorContains(err, "2 decimal places")

	_, err = suite.service.RecordExpense(suite.ctx, owner, "food", dec("1000000000000"), time.Time{})
	suite.ErrorIs(err, apperrors.ErrInvalidInput)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
	suite.Empty(suite.published.Types())
}

func (suite *LedgerServiceTestSuite) TestRecordIncome_Success() {
	suite.mockRepo.On("SaveIncome", suite.ctx, mock.MatchedBy(func(i domain.Income) bool {
		return i.Source == "salary" && i.Amount.Equal(dec("5000")) && i.OccurredOn.Equal(day("2024-03-01"))
	})).Return(domain.Income{IncomeID: 3, Source: "salary", Amount: dec("5000")}, nil).Once()

	income, err := suite.service.RecordIncome(suite.ctx, owner, dec("5000"), day("2024-03-01"), " salary ")

	suite.Require().NoError(err)
	suite.Equal(int64(3), income.IncomeID)
	suite.Equal([]string{events.IncomeRecorded}, suite.published.Types())
}

func (suite *LedgerServiceTestSuite) TestRecordIncome_NegativeRejected() {
	_, err := suite.service.RecordIncome(suite.ctx, owner, dec("-5"), time.Time{}, "")
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
}

func (suite *LedgerServiceTestSuite) TestDeleteExpense_NotFound() {
	suite.mockRepo.On("DeleteExpense", suite.ctx, owner, int64(99)).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteExpense(suite.ctx, owner, 99)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestResetCurrentMonth() {
	suite.mockRepo.On("DeleteExpenses", suite.ctx, owner, "2024-03").Return(int64(4), nil).Once()
	suite.mockRepo.On("DeleteIncomeRows", suite.ctx, owner, "2024-03").Return(int64(1), nil).Once()

	summary, err := suite.service.ResetCurrentMonth(suite.ctx, owner, suite.now)

	suite.Require().NoError(err)
	suite.Equal(domain.ResetSummary{ExpensesDeleted: 4, IncomeDeleted: 1}, summary)
	suite.Equal(1, suite.tx.Calls, "both deletes share one transaction")
}

func (suite *LedgerServiceTestSuite) TestDeleteAllUserData() {
	boom := errors.New("disk full")
	suite.mockRepo.On("DeleteExpenses", suite.ctx, owner, "").Return(int64(10), nil).Once()
	suite.mockRepo.On("DeleteIncomeRows", suite.ctx, owner, "").Return(int64(0), boom).Once()

	summary, err := suite.service.DeleteAllUserData(suite.ctx, owner)

	suite.ErrorIs(err, boom)
	suite.Equal(domain.ResetSummary{}, summary)
}

func (suite *LedgerServiceTestSuite) TestListExpenses() {
	filter := domain.LedgerFilter{YearMonth: "2024-03", Limit: 2}
	suite.mockRepo.On("ListExpenses", suite.ctx, owner, filter).Return(domain.ExpensePage{}, nil).Once()

	page, err := suite.service.ListExpenses(suite.ctx, owner, filter)

	suite.Require().NoError(err)
	suite.NotNil(page.Expenses)
	suite.Empty(page.Expenses)

	_, err = suite.service.ListExpenses(suite.ctx, owner, domain.LedgerFilter{YearMonth: "March"})
	suite.ErrorIs(err, apperrors.ErrInvalidInput)

	_, err = suite.service.ListIncome(suite.ctx, owner, domain.LedgerFilter{Limit: -1})
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
}

func (suite *LedgerServiceTestSuite) TestExportExpensesCSV() {
	suite.mockRepo.On("ListExpenses", suite.ctx, owner, domain.LedgerFilter{}).Return(domain.ExpensePage{Expenses: []domain.Expense{
		{Category: "food", Amount: dec("120.5"), OccurredOn: day("2024-03-01")},
		{Category: "rent, flat", Amount: dec("9000"), OccurredOn: day("2024-03-02")},
	}}, nil).Once()

	var buf bytes.Buffer
	suite.Require().NoError(suite.service.ExportExpensesCSV(suite.ctx, owner, &buf))

	suite.Equal("date,category,amount\n2024-03-01,food,120.50\n2024-03-02,\"rent, flat\",9000.00\n", buf.String())
}

func (suite *LedgerServiceTestSuite) TestImportExpensesCSV_Success() {
	suite.mockRepo.On("SaveExpense", mock.Anything, mock.AnythingOfType("domain.Expense")).
		Return(domain.Expense{ExpenseID: 1}, nil).Twice()

	input := "date,category,amount\n2024-03-01,food,120.50\n\n2024-03-02,travel,40\n"
	summary, err := suite.service.ImportExpensesCSV(suite.ctx, owner, strings.NewReader(input))

	suite.Require().NoError(err)
	suite.Equal(2, summary.Imported)
	suite.Equal(1, suite.tx.Calls)
	suite.Equal([]string{events.ExpenseRecorded, events.ExpenseRecorded}, suite.published.Types())
}

func (suite *LedgerServiceTestSuite) TestImportExpensesCSV_RejectsWholeFileOnBadRow() {
	input := "2024-03-01,food,120.50\n2024-13-01,food,10\n"

	_, err := suite.service.ImportExpensesCSV(suite.ctx, owner, strings.NewReader(input))

	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.ErrorContains(err, "row 2")
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
	suite.Zero(suite.tx.Calls)
	suite.Empty(suite.published.Types())
}

func (suite *LedgerServiceTestSuite) TestAmountPrecision() {
	suite.mockRepo.On("SaveExpense", suite.ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Amount.Equal(dec("120.5"))
	})).Return(domain.Expense{ExpenseID: 9, Amount: dec("120.50")}, nil).Once()

	_, err := suite.service.RecordExpense(suite.ctx, owner, "food", dec("120.500"), day("2024-03-01"))
	suite.Require().NoError(err)

	_, err = suite.service.ImportExpensesCSV(suite.ctx, owner, strings.NewReader("2024-03-01,food,1.999\n"))
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.ErrorContains(err, "row 1")

	_, err = suite.service.RecordIncome(suite.ctx, owner, dec("0.001"), time.Time{}, "")
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveIncome", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestImportExpensesCSV_NoEventsWhenTransactionFails() {
	boom := errors.New("constraint failed")
	suite.mockRepo.On("SaveExpense", mock.Anything, mock.Anything).Return(domain.Expense{}, nil).Once()
	suite.mockRepo.On("SaveExpense", mock.Anything, mock.Anything).Return(domain.Expense{}, boom).Once()

	_, err := suite.service.ImportExpensesCSV(suite.ctx, owner, strings.NewReader("2024-03-01,food,1\n2024-03-02,food,2\n"))

	suite.ErrorIs(err, boom)
	suite.Empty(suite.published.Types())
}

func (suite *LedgerServiceTestSuite) TestImportIncomeCSV() {
	suite.mockRepo.On("SaveIncome", mock.Anything, mock.MatchedBy(func(i domain.Income) bool {
		return i.Source == "salary" && i.Amount.Equal(dec("5000"))
	})).Return(domain.Income{IncomeID: 1}, nil).Once()

	summary, err := suite.service.ImportIncomeCSV(suite.ctx, owner, strings.NewReader("date,amount,source\n2024-03-01,5000,salary\n"))

	suite.Require().NoError(err)
	suite.Equal(1, summary.Imported)

	_, err = suite.service.ImportIncomeCSV(suite.ctx, owner, strings.NewReader("2024-03-01,lots,bonus\n"))
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.ErrorContains(err, "row 1")
}
