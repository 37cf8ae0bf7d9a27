package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/handlers"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "test-secret-key-that-is-long-enough"
	testOwner     = "alice@example.com"
	testSessionID = "session-1"
)

// --- Mock SessionService ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) ValidateSession(ctx context.Context, sessionID, subject, token string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID, subject, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionService) IssueSession(ctx context.Context, identity *domain.Identity) (string, *domain.Session, error) {
	args := m.Called(ctx, identity)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.Session), args.Error(2)
}
func (m *MockSessionService) RevokeSession(ctx context.Context, sessionID, owner string) error {
	return m.Called(ctx, sessionID, owner).Error(0)
}
func (m *MockSessionService) RevokeAllSessions(ctx context.Context, owner string) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSessionService) PruneExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Mock IdentityService ---
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) GetIdentity(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityService) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityService) RegisterIdentity(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}
func (m *MockIdentityService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityService) VerifyCredential(ctx context.Context, email, password string) bool {
	return m.Called(ctx, email, password).Bool(0)
}
func (m *MockIdentityService) LoginWithGoogle(ctx context.Context, idToken string) (*domain.Identity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

var _ portssvc.IdentitySvcFacade = (*MockIdentityService)(nil)

// --- Mock GoogleOAuthService ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockGoogleOAuthService) GoogleLoginURL(ctx context.Context, state string) string {
	return m.Called(ctx, state).String(0)
}
func (m *MockGoogleOAuthService) ExchangeGoogleCode(ctx context.Context, code string) (*domain.Identity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

var _ portssvc.GoogleOAuthSvcFacade = (*MockGoogleOAuthService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordExpense(ctx context.Context, owner, category string, amount decimal.Decimal, occurredOn time.Time) (*domain.Expense, error) {
	args := m.Called(ctx, owner, category, amount, occurredOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockLedgerService) RecordIncome(ctx context.Context, owner string, amount decimal.Decimal, occurredOn time.Time, source string) (*domain.Income, error) {
	args := m.Called(ctx, owner, amount, occurredOn, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}
func (m *MockLedgerService) DeleteExpense(ctx context.Context, owner string, expenseID int64) error {
	return m.Called(ctx, owner, expenseID).Error(0)
}
func (m *MockLedgerService) DeleteIncome(ctx context.Context, owner string, incomeID int64) error {
	return m.Called(ctx, owner, incomeID).Error(0)
}
func (m *MockLedgerService) ResetCurrentMonth(ctx context.Context, owner string, now time.Time) (domain.ResetSummary, error) {
	args := m.Called(ctx, owner, now)
	return args.Get(0).(domain.ResetSummary), args.Error(1)
}
func (m *MockLedgerService) DeleteAllUserData(ctx context.Context, owner string) (domain.ResetSummary, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(domain.ResetSummary), args.Error(1)
}
func (m *MockLedgerService) ListExpenses(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.ExpensePage, error) {
	args := m.Called(ctx, owner, filter)
	return args.Get(0).(domain.ExpensePage), args.Error(1)
}
func (m *MockLedgerService) ListIncome(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.IncomePage, error) {
	args := m.Called(ctx, owner, filter)
	return args.Get(0).(domain.IncomePage), args.Error(1)
}
func (m *MockLedgerService) ExportExpensesCSV(ctx context.Context, owner string, w io.Writer) error {
	args := m.Called(ctx, owner, w)
	if body := args.String(1); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(0)
}
func (m *MockLedgerService) ImportExpensesCSV(ctx context.Context, owner string, r io.Reader) (domain.ImportSummary, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, owner, string(body))
	return args.Get(0).(domain.ImportSummary), args.Error(1)
}
func (m *MockLedgerService) ExportIncomeCSV(ctx context.Context, owner string, w io.Writer) error {
	args := m.Called(ctx, owner, w)
	if body := args.String(1); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(0)
}
func (m *MockLedgerService) ImportIncomeCSV(ctx context.Context, owner string, r io.Reader) (domain.ImportSummary, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, owner, string(body))
	return args.Get(0).(domain.ImportSummary), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock GroupService ---
type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) CreateGroup(ctx context.Context, name string) (*domain.CreateGroupResult, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateGroupResult), args.Error(1)
}
func (m *MockGroupService) JoinGroup(ctx context.Context, member, groupName string) error {
	return m.Called(ctx, member, groupName).Error(0)
}
func (m *MockGroupService) ListMembers(ctx context.Context, groupName string) ([]domain.Membership, error) {
	args := m.Called(ctx, groupName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}
func (m *MockGroupService) ListGroupsForMember(ctx context.Context, member string) ([]domain.Group, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}
func (m *MockGroupService) RecordSharedExpense(ctx context.Context, groupName, spender, category string, amount decimal.Decimal, splitWith []string, occurredOn time.Time) (*domain.SharedExpense, error) {
	args := m.Called(ctx, groupName, spender, category, amount, splitWith, occurredOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SharedExpense), args.Error(1)
}
func (m *MockGroupService) ListGroupExpenses(ctx context.Context, groupName string) ([]domain.SharedExpense, error) {
	args := m.Called(ctx, groupName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SharedExpense), args.Error(1)
}
func (m *MockGroupService) GetGroupExpenses(ctx context.Context, groupName string) ([]domain.SharedExpense, error) {
	args := m.Called(ctx, groupName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SharedExpense), args.Error(1)
}
func (m *MockGroupService) GroupBalances(ctx context.Context, groupName string) ([]domain.MemberBalance, error) {
	args := m.Called(ctx, groupName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberBalance), args.Error(1)
}

var _ portssvc.GroupSvcFacade = (*MockGroupService)(nil)

// --- Mock RewardService ---
type MockRewardService struct {
	mock.Mock
}

func (m *MockRewardService) AddPoints(ctx context.Context, owner string, delta int64) (int64, error) {
	args := m.Called(ctx, owner, delta)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRewardService) GetPoints(ctx context.Context, owner string) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRewardService) AwardBadge(ctx context.Context, owner, badgeName string) (*domain.Badge, error) {
	args := m.Called(ctx, owner, badgeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Badge), args.Error(1)
}
func (m *MockRewardService) GetBadges(ctx context.Context, owner string) ([]domain.Badge, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Badge), args.Error(1)
}
func (m *MockRewardService) CheckMonthlyBudget(ctx context.Context, owner string, limit decimal.Decimal) (*domain.BudgetCheckResult, error) {
	args := m.Called(ctx, owner, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCheckResult), args.Error(1)
}

var _ portssvc.RewardSvcFacade = (*MockRewardService)(nil)

// --- Mock AnalyticsService ---
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Summary(ctx context.Context, owner, yearMonth string) (*domain.FinancialSummary, error) {
	args := m.Called(ctx, owner, yearMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialSummary), args.Error(1)
}
func (m *MockAnalyticsService) Categories(ctx context.Context, owner, yearMonth string) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, owner, yearMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}
func (m *MockAnalyticsService) Patterns(ctx context.Context, owner string) (*domain.SpendingPatterns, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendingPatterns), args.Error(1)
}
func (m *MockAnalyticsService) Insights(ctx context.Context, owner string) ([]domain.Insight, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Insight), args.Error(1)
}

var _ portssvc.AnalyticsSvc = (*MockAnalyticsService)(nil)

// --- Mock AdvisorService ---
type MockAdvisorService struct {
	mock.Mock
}

func (m *MockAdvisorService) Ask(ctx context.Context, owner, question string) (*domain.AdvisorReply, error) {
	args := m.Called(ctx, owner, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdvisorReply), args.Error(1)
}

var _ portssvc.AdvisorSvc = (*MockAdvisorService)(nil)

// --- Mock ReceiptService ---
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Scan(ctx context.Context, owner, filename string, image []byte) (*domain.ReceiptScan, error) {
	args := m.Called(ctx, owner, filename, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptScan), args.Error(1)
}
func (m *MockReceiptService) ScanText(ctx context.Context, owner, text string) (*domain.ReceiptScan, error) {
	args := m.Called(ctx, owner, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptScan), args.Error(1)
}

var _ portssvc.ReceiptSvc = (*MockReceiptService)(nil)

// testServices bundles every mocked service behind one router.
type testServices struct {
	session   *MockSessionService
	identity  *MockIdentityService
	google    *MockGoogleOAuthService
	ledger    *MockLedgerService
	group     *MockGroupService
	reward    *MockRewardService
	analytics *MockAnalyticsService
	advisor   *MockAdvisorService
	receipt   *MockReceiptService
}

func newTestServices() *testServices {
	return &testServices{
		session:   new(MockSessionService),
		identity:  new(MockIdentityService),
		google:    new(MockGoogleOAuthService),
		ledger:    new(MockLedgerService),
		group:     new(MockGroupService),
		reward:    new(MockRewardService),
		analytics: new(MockAnalyticsService),
		advisor:   new(MockAdvisorService),
		receipt:   new(MockReceiptService),
	}
}

func (s *testServices) container() *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Identity:    s.identity,
		Session:     s.session,
		GoogleOAuth: s.google,
		Ledger:      s.ledger,
		Group:       s.group,
		Reward:      s.reward,
		Analytics:   s.analytics,
		Advisor:     s.advisor,
		Receipt:     s.receipt,
	}
}

func (s *testServices) assertExpectations(t *testing.T) {
	s.session.AssertExpectations(t)
	s.identity.AssertExpectations(t)
	s.google.AssertExpectations(t)
	s.ledger.AssertExpectations(t)
	s.group.AssertExpectations(t)
	s.reward.AssertExpectations(t)
	s.analytics.AssertExpectations(t)
	s.advisor.AssertExpectations(t)
	s.receipt.AssertExpectations(t)
}

func testConfig() *config.Config {
	return &config.Config{
		IsProduction:       true,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		JWTSecret:          testSecret,
		JWTExpiryDuration:  time.Hour,
		JWTIssuer:          "pocket-ledger-test",
		LoginRateLimit:     "1000-M",
		APIRateLimit:       "1000-M",
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, svcs *testServices) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, handlers.RegisterRoutes(r, cfg, svcs.container(), nil))
	return r
}

// bearer signs a token for testOwner and teaches the session mock to accept it.
func (s *testServices) bearer(t *testing.T) string {
	t.Helper()
	now := time.Now()
	token, err := utils.GenerateJWT(testOwner, testSessionID, testSecret, now, time.Hour, "pocket-ledger-test")
	require.NoError(t, err)
	s.session.On("ValidateSession", mock.Anything, testSessionID, testOwner, token).
		Return(&domain.Session{SessionID: testSessionID, Owner: testOwner, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}, nil).
		Maybe()
	return "Bearer " + token
}

func doRequest(r http.Handler, method, path, auth, contentType, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signedToken(t *testing.T, issuedAt time.Time) string {
	t.Helper()
	token, err := utils.GenerateJWT(testOwner, testSessionID, testSecret, issuedAt, time.Hour, "pocket-ledger-test")
	require.NoError(t, err)
	return token
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
