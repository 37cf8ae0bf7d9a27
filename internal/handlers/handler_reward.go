package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/dto"
	"github.com/SscSPs/pocket_ledger_app/internal/middleware"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
)

type rewardHandler struct {
	rewardService portssvc.RewardSvcFacade
	posthog       *utils.PosthogClientWrapper
}

func registerRewardRoutes(rg *gin.RouterGroup, rewards portssvc.RewardSvcFacade, posthog *utils.PosthogClientWrapper) {
	h := &rewardHandler{rewardService: rewards, posthog: posthog}

	r := rg.Group("/rewards")
	{
		r.GET("/points", h.points)
		r.GET("/badges", h.badges)
		r.POST("/budget-check", h.budgetCheck)
	}
}

// points godoc
// @Summary Point balance
// @Tags rewards
// @Produce json
// @Success 200 {object} dto.PointsResponse
// @Security BearerAuth
// @Router /rewards/points [get]
func (h *rewardHandler) points(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	points, err := h.rewardService.GetPoints(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to load points")
		return
	}
	c.JSON(http.StatusOK, dto.PointsResponse{Points: points})
}

// badges godoc
// @Summary Earned badges
// @Tags rewards
// @Produce json
// @Success 200 {array} dto.BadgeResponse
// @Security BearerAuth
// @Router /rewards/badges [get]
func (h *rewardHandler) badges(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	badges, err := h.rewardService.GetBadges(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to load badges")
		return
	}
	c.JSON(http.StatusOK, dto.ToBadgeResponses(badges))
}

// budgetCheck godoc
// @Summary Monthly budget check
// @Description Awards points and the Budget Boss badge when spending is within limit. Concurrent checks for one owner award at most once per period.
// @Tags rewards
// @Accept json
// @Produce json
// @Param check body dto.BudgetCheckRequest true "Budget limit"
// @Success 200 {object} domain.BudgetCheckResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Award claimed by a concurrent request"
// @Security BearerAuth
// @Router /rewards/budget-check [post]
func (h *rewardHandler) budgetCheck(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var req dto.BudgetCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.rewardService.CheckMonthlyBudget(c.Request.Context(), owner, *req.Limit)
	if err != nil {
		respondError(c, err, "Failed to check budget")
		return
	}
	if result.Awarded {
		middleware.PosthogEvent(c, h.posthog, "budget_badge_awarded", map[string]any{
			"period": result.Period,
			"points": result.PointsAwarded,
		})
	}
	c.JSON(http.StatusOK, result)
}
