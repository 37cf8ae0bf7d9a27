package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/core/services"
	"github.com/SscSPs/pocket_ledger_app/internal/events"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/SscSPs/pocket_ledger_app/internal/repositories/database/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RewardServiceTestSuite struct {
	suite.Suite
	rewards   *MockRewardRepository
	ledger    *MockLedgerRepository
	tx        *MockTxManager
	published *events.Recorder
	now       time.Time
	ctx       context.Context
}

func (suite *RewardServiceTestSuite) SetupTest() {
	suite.rewards = new(MockRewardRepository)
	suite.ledger = new(MockLedgerRepository)
	suite.tx = &MockTxManager{}
	suite.published = &events.Recorder{}
	suite.now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	suite.ctx = context.Background()
}

func (suite *RewardServiceTestSuite) newService(scope, policy string) portssvc.RewardSvcFacade {
	return services.NewRewardService(suite.rewards, suite.ledger, suite.tx, suite.published,
		services.RewardConfig{BudgetScope: scope, AwardPolicy: policy},
		services.WithClock(fixedClock(suite.now)))
}

func TestRewardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RewardServiceTestSuite))
}

func (suite *RewardServiceTestSuite) TestAddPoints() {
	svc := suite.newService("", "")
	suite.rewards.On("IncrementPoints", suite.ctx, owner, int64(10)).Return(int64(60), nil).Once()

	balance, err := svc.AddPoints(suite.ctx, owner, 10)
	suite.Require().NoError(err)
	suite.Equal(int64(60), balance)

	_, err = svc.AddPoints(suite.ctx, owner, 0)
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	_, err = svc.AddPoints(suite.ctx, owner, -5)
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
}

func (suite *RewardServiceTestSuite) TestAwardBadge() {
	svc := suite.newService("", "")
	suite.rewards.On("SaveBadge", suite.ctx, domain.Badge{Owner: owner, Name: "Saver", EarnedOn: day("2024-03-20")}).
		Return(domain.Badge{BadgeID: 4, Owner: owner, Name: "Saver"}, nil).Once()

	badge, err := svc.AwardBadge(suite.ctx, owner, " Saver ")
	suite.Require().NoError(err)
	suite.Equal(int64(4), badge.BadgeID)

	_, err = svc.AwardBadge(suite.ctx, owner, "  ")
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
}

func (suite *RewardServiceTestSuite) TestGetBadges_EmptyIsNotNil() {
	svc := suite.newService("", "")
	suite.rewards.On("ListBadges", suite.ctx, owner).Return(nil, nil).Once()

	badges, err := svc.GetBadges(suite.ctx, owner)

	suite.Require().NoError(err)
	suite.NotNil(badges)
}

func (suite *RewardServiceTestSuite) TestCheckMonthlyBudget_Awarded() {
	svc := suite.newService(config.BudgetScopeAllTime, config.AwardPolicyOncePerPeriod)
	suite.ledger.On("SumExpenses", mock.Anything, owner, "").Return(dec("1000"), nil).Once()
	suite.rewards.On("HasBudgetAward", mock.Anything, owner, domain.BudgetBossBadge, "2024-03").Return(false, nil).Once()
	suite.rewards.On("InsertBudgetAward", mock.Anything, owner, domain.BudgetBossBadge, "2024-03", suite.now.Unix()).Return(nil).Once()
	suite.rewards.On("IncrementPoints", mock.Anything, owner, domain.BudgetAwardPoints).Return(int64(50), nil).Once()
	suite.rewards.On("SaveBadge", mock.Anything, domain.Badge{Owner: owner, Name: domain.BudgetBossBadge, EarnedOn: day("2024-03-20")}).
		Return(domain.Badge{BadgeID: 1}, nil).Once()

	result, err := svc.CheckMonthlyBudget(suite.ctx, owner, dec("1000"))

	suite.Require().NoError(err)
	suite.True(result.Awarded, "spending exactly the limit passes")
	suite.Equal(domain.BudgetAwardPoints, result.PointsAwarded)
	suite.Equal(domain.BudgetBossBadge, result.Badge)
	suite.Equal("2024-03", result.Period)
	suite.Equal(1, suite.tx.Calls)
	suite.Equal([]string{events.BadgeAwarded}, suite.published.Types())
	suite.rewards.AssertExpectations(suite.T())
}

func (suite *RewardServiceTestSuite) TestCheckMonthlyBudget_OverLimit() {
	svc := suite.newService(config.BudgetScopeCurrentMonth, config.AwardPolicyOncePerPeriod)
	suite.ledger.On("SumExpenses", mock.Anything, owner, "2024-03").Return(dec("1000.01"), nil).Once()

	result, err := svc.CheckMonthlyBudget(suite.ctx, owner, dec("1000"))

	suite.Require().NoError(err)
	suite.False(result.Awarded)
	suite.False(result.AlreadyAwarded)
	suite.Equal(config.BudgetScopeCurrentMonth, result.Scope)
	suite.rewards.AssertNotCalled(suite.T(), "IncrementPoints", mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.published.Types())
}

func (suite *RewardServiceTestSuite) TestCheckMonthlyBudget_AlreadyAwardedThisPeriod() {
	svc := suite.newService(config.BudgetScopeAllTime, config.AwardPolicyOncePerPeriod)
	suite.ledger.On("SumExpenses", mock.Anything, owner, "").Return(dec("10"), nil).Once()
	suite.rewards.On("HasBudgetAward", mock.Anything, owner, domain.BudgetBossBadge, "2024-03").Return(true, nil).Once()

	result, err := svc.CheckMonthlyBudget(suite.ctx, owner, dec("100"))

	suite.Require().NoError(err)
	suite.False(result.Awarded)
	suite.True(result.AlreadyAwarded)
	suite.rewards.AssertNotCalled(suite.T(), "SaveBadge", mock.Anything, mock.Anything)
}

func (suite *RewardServiceTestSuite) TestCheckMonthlyBudget_LostRace() {
	svc := suite.newService(config.BudgetScopeAllTime, config.AwardPolicyOncePerPeriod)
	suite.ledger.On("SumExpenses", mock.Anything, owner, "").Return(dec("10"), nil).Once()
	suite.rewards.On("HasBudgetAward", mock.Anything, owner, domain.BudgetBossBadge, "2024-03").Return(false, nil).Once()
	suite.rewards.On("InsertBudgetAward", mock.Anything, owner, domain.BudgetBossBadge, "2024-03", mock.Anything).Return(apperrors.ErrDuplicate).Once()

	result, err := svc.CheckMonthlyBudget(suite.ctx, owner, dec("100"))

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConcurrentAwardRace)
	suite.rewards.AssertNotCalled(suite.T(), "IncrementPoints", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RewardServiceTestSuite) TestCheckMonthlyBudget_EveryCheckPolicy() {
	svc := suite.newService(config.BudgetScopeAllTime, config.AwardPolicyEveryCheck)
	suite.ledger.On("SumExpenses", mock.Anything, owner, "").Return(dec("10"), nil).Twice()
	suite.rewards.On("IncrementPoints", mock.Anything, owner, domain.BudgetAwardPoints).Return(int64(50), nil).Twice()
	suite.rewards.On("SaveBadge", mock.Anything, mock.Anything).Return(domain.Badge{}, nil).Twice()

	for i := 0; i < 2; i++ {
		result, err := svc.CheckMonthlyBudget(suite.ctx, owner, dec("100"))
		suite.Require().NoError(err)
		suite.True(result.Awarded)
	}
	suite.rewards.AssertNotCalled(suite.T(), "HasBudgetAward", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RewardServiceTestSuite) TestCheckMonthlyBudget_Errors() {
	svc := suite.newService("", "")

	_, err := svc.CheckMonthlyBudget(suite.ctx, owner, dec("-1"))
	suite.ErrorIs(err, apperrors.ErrInvalidInput)

	boom := errors.New("db locked")
	suite.ledger.On("SumExpenses", mock.Anything, owner, "").Return(dec("0"), boom).Once()
	_, err = svc.CheckMonthlyBudget(suite.ctx, owner, dec("100"))
	suite.ErrorIs(err, boom)
}

func newSQLiteRepos(t *testing.T) portsrepo.RepositoryProvider {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rewards.db")
	require.NoError(t, database.RunMigrations(database.DialectSQLite, database.SQLiteDSN(path), nil))
	db, err := database.OpenSQLite(context.Background(), path, true)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return sqlstore.NewRepositoryProvider(db)
}

func TestCheckMonthlyBudget_ConcurrentChecksAwardOnce(t *testing.T) {
	repos := newSQLiteRepos(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	_, err := repos.LedgerRepo.SaveExpense(ctx, domain.Expense{Owner: owner, Category: "food", Amount: dec("250"), OccurredOn: day("2024-03-02"), AuditFields: domain.AuditFields{CreatedAt: now}})
	require.NoError(t, err)

	newSvc := func() portssvc.RewardSvcFacade {
		return services.NewRewardService(repos.RewardRepo, repos.LedgerRepo, repos.TxManager, nil,
			services.RewardConfig{}, services.WithClock(fixedClock(now)))
	}
	// Two service instances share the store, like two replicas behind one database.
	replicas := []portssvc.RewardSvcFacade{newSvc(), newSvc()}

	const checks = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		awarded int
	)
	for i := 0; i < checks; i++ {
		wg.Add(1)
		go func(svc portssvc.RewardSvcFacade) {
			defer wg.Done()
			result, err := svc.CheckMonthlyBudget(ctx, owner, dec("1000"))
			if err != nil {
				assert.ErrorIs(t, err, apperrors.ErrConcurrentAwardRace)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if result.Awarded {
				awarded++
			} else {
				assert.True(t, result.AlreadyAwarded)
			}
		}(replicas[i%len(replicas)])
	}
	wg.Wait()

	assert.Equal(t, 1, awarded)

	points, err := repos.RewardRepo.GetPoints(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.BudgetAwardPoints, points)

	badges, err := repos.RewardRepo.ListBadges(ctx, owner)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, domain.BudgetBossBadge, badges[0].Name)
}
