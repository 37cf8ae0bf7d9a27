package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRewardRoutes(t *testing.T) {
	svcs := newTestServices()
	router := newTestRouter(t, testConfig(), svcs)
	auth := svcs.bearer(t)

	svcs.reward.On("GetPoints", mock.Anything, testOwner).Return(int64(150), nil).Once()
	svcs.reward.On("GetBadges", mock.Anything, testOwner).Return([]domain.Badge{
		{BadgeID: 1, Owner: testOwner, Name: domain.BudgetBossBadge, EarnedOn: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
	}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/rewards/points", auth, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"points":150}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/rewards/badges", auth, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"Budget Boss 🏅","earnedOn":"2024-03-31"}]`, w.Body.String())

	svcs.assertExpectations(t)
}

func TestBudgetCheckRoute(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		result     *domain.BudgetCheckResult
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "awarded",
			body: `{"limit":2000}`,
			result: &domain.BudgetCheckResult{
				Owner: testOwner, Limit: decimal.NewFromInt(2000), Total: decimal.NewFromInt(1500),
				Period: "2024-03", Awarded: true, PointsAwarded: domain.BudgetAwardPoints, Badge: domain.BudgetBossBadge,
			},
			wantStatus: http.StatusOK,
			wantBody:   `"awarded":true`,
		},
		{
			name:       "lost race",
			body:       `{"limit":2000}`,
			err:        apperrors.ErrConcurrentAwardRace,
			wantStatus: http.StatusConflict,
			wantBody:   "concurrent request",
		},
		{
			name:       "negative limit",
			body:       `{"limit":-1}`,
			err:        apperrors.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svcs := newTestServices()
			router := newTestRouter(t, testConfig(), svcs)
			auth := svcs.bearer(t)
			svcs.reward.On("CheckMonthlyBudget", mock.Anything, testOwner, mock.AnythingOfType("decimal.Decimal")).
				Return(tc.result, tc.err).Once()

			w := doRequest(router, http.MethodPost, "/api/v1/rewards/budget-check", auth, "application/json", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				assert.Contains(t, w.Body.String(), tc.wantBody)
			}
			svcs.assertExpectations(t)
		})
	}
}

func TestBudgetCheckRoute_MissingLimit(t *testing.T) {
	svcs := newTestServices()
	router := newTestRouter(t, testConfig(), svcs)

	w := doRequest(router, http.MethodPost, "/api/v1/rewards/budget-check", svcs.bearer(t), "application/json", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svcs.reward.AssertNotCalled(t, "CheckMonthlyBudget", mock.Anything, mock.Anything, mock.Anything)
}
