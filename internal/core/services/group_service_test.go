package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GroupServiceTestSuite struct {
	suite.Suite
	mockRepo *MockGroupRepository
	now      time.Time
	service  portssvc.GroupSvcFacade
	ctx      context.Context
	trip     *domain.Group
}

func (suite *GroupServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockGroupRepository)
	suite.now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	suite.ctx = context.Background()
	suite.service = services.NewGroupService(suite.mockRepo, services.WithClock(fixedClock(suite.now)))
	suite.trip = &domain.Group{GroupID: 1, Name: "Goa Trip"}
}

func TestGroupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceTestSuite))
}

func (suite *GroupServiceTestSuite) TestCreateGroup_Created() {
	suite.mockRepo.On("InsertGroupIfAbsent", suite.ctx, mock.MatchedBy(func(g domain.Group) bool {
		return g.Name == "Goa Trip"
	})).Return(true, nil).Once()
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Goa Trip").Return(suite.trip, nil).Once()

	result, err := suite.service.CreateGroup(suite.ctx, "  Goa Trip ")

	suite.Require().NoError(err)
	suite.Equal(domain.GroupCreated, result.Outcome)
	suite.Equal(int64(1), result.Group.GroupID)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_AlreadyExists() {
	suite.mockRepo.On("InsertGroupIfAbsent", suite.ctx, mock.Anything).Return(false, nil).Once()
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Goa Trip").Return(suite.trip, nil).Once()

	result, err := suite.service.CreateGroup(suite.ctx, "Goa Trip")

	suite.Require().NoError(err, "a taken name is not an error")
	suite.Equal(domain.GroupAlreadyExists, result.Outcome)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_EmptyName() {
	_, err := suite.service.CreateGroup(suite.ctx, " ")
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
}

func (suite *GroupServiceTestSuite) TestJoinGroup() {
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Goa Trip").Return(suite.trip, nil)
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Nowhere").Return(nil, apperrors.ErrGroupNotFound)
	suite.mockRepo.On("AddMember", suite.ctx, domain.Membership{GroupID: 1, Member: "bob@example.com", JoinedAt: suite.now}).Return(nil).Twice()

	suite.NoError(suite.service.JoinGroup(suite.ctx, "bob@example.com", "Goa Trip"))
	suite.NoError(suite.service.JoinGroup(suite.ctx, "bob@example.com", "Goa Trip"), "joining twice is idempotent")

	err := suite.service.JoinGroup(suite.ctx, "bob@example.com", "Nowhere")
	suite.ErrorIs(err, apperrors.ErrGroupNotFound)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestRecordSharedExpense() {
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Goa Trip").Return(suite.trip, nil).Once()
	suite.mockRepo.On("SaveSharedExpense", suite.ctx, mock.MatchedBy(func(e domain.SharedExpense) bool {
		return e.GroupID == 1 && e.Spender == "alice@example.com" &&
			len(e.SplitWith) == 2 && e.SplitWith[0] == "bob@example.com" && e.SplitWith[1] == "carol@example.com" &&
			e.OccurredOn.Equal(day("2024-03-15"))
	})).Return(domain.SharedExpense{SharedExpenseID: 11}, nil).Once()

	saved, err := suite.service.RecordSharedExpense(suite.ctx, "Goa Trip", "alice@example.com", "food", dec("300"),
		[]string{" bob@example.com", "", "carol@example.com"}, time.Time{})

	suite.Require().NoError(err)
	suite.Equal(int64(11), saved.SharedExpenseID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestRecordSharedExpense_UnknownGroupWritesNothing() {
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Nowhere").Return(nil, apperrors.ErrGroupNotFound).Once()

	_, err := suite.service.RecordSharedExpense(suite.ctx, "Nowhere", "alice@example.com", "food", dec("10"), nil, time.Time{})

	suite.ErrorIs(err, apperrors.ErrGroupNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSharedExpense", mock.Anything, mock.Anything)
}

func (suite *GroupServiceTestSuite) TestListVersusGetGroupExpenses() {
	suite.mockRepo.On("ListSharedExpensesByGroupName", suite.ctx, "Nowhere").Return(nil, nil).Once()
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Nowhere").Return(nil, apperrors.ErrGroupNotFound).Once()

	listed, err := suite.service.ListGroupExpenses(suite.ctx, "Nowhere")
	suite.Require().NoError(err)
	suite.NotNil(listed)
	suite.Empty(listed)

	_, err = suite.service.GetGroupExpenses(suite.ctx, "Nowhere")
	suite.ErrorIs(err, apperrors.ErrGroupNotFound)
}

func (suite *GroupServiceTestSuite) TestGroupBalances() {
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Goa Trip").Return(suite.trip, nil).Once()
	suite.mockRepo.On("ListSharedExpenses", suite.ctx, int64(1)).Return([]domain.SharedExpense{
		{Spender: "alice", Amount: dec("300"), SplitWith: []string{"bob", "carol"}},
		{Spender: "bob", Amount: dec("60"), SplitWith: []string{"alice"}},
	}, nil).Once()

	balances, err := suite.service.GroupBalances(suite.ctx, "Goa Trip")

	suite.Require().NoError(err)
	suite.Require().Len(balances, 3)
	suite.Equal("alice", balances[0].Member)
	suite.True(balances[0].Balance.Equal(dec("170")), balances[0].Balance.String())
	suite.True(balances[1].Balance.Equal(dec("-70")), balances[1].Balance.String())
	suite.True(balances[2].Balance.Equal(dec("-100")), balances[2].Balance.String())
}

func (suite *GroupServiceTestSuite) TestListMembersAndGroups() {
	suite.mockRepo.On("FindGroupByName", suite.ctx, "Goa Trip").Return(suite.trip, nil).Once()
	suite.mockRepo.On("ListMembers", suite.ctx, int64(1)).Return(nil, nil).Once()
	suite.mockRepo.On("ListGroupsForMember", suite.ctx, "bob@example.com").Return([]domain.Group{*suite.trip}, nil).Once()

	members, err := suite.service.ListMembers(suite.ctx, "Goa Trip")
	suite.Require().NoError(err)
	suite.NotNil(members)

	groups, err := suite.service.ListGroupsForMember(suite.ctx, "bob@example.com")
	suite.Require().NoError(err)
	suite.Equal([]domain.Group{*suite.trip}, groups)
}
