package handlers

import (
	"net/http"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvc
}

func registerAnalyticsRoutes(rg *gin.RouterGroup, analytics portssvc.AnalyticsSvc) {
	h := &analyticsHandler{analyticsService: analytics}

	a := rg.Group("/analytics")
	{
		a.GET("/summary", h.summary)
		a.GET("/categories", h.categories)
		a.GET("/patterns", h.patterns)
		a.GET("/insights", h.insights)
	}
}

// summary godoc
// @Summary Financial summary
// @Tags analytics
// @Produce json
// @Param month query string false "Month (YYYY-MM); all time when empty"
// @Success 200 {object} domain.FinancialSummary
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytics/summary [get]
func (h *analyticsHandler) summary(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	summary, err := h.analyticsService.Summary(c.Request.Context(), owner, c.Query("month"))
	if err != nil {
		respondError(c, err, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// categories godoc
// @Summary Category breakdown
// @Tags analytics
// @Produce json
// @Param month query string false "Month (YYYY-MM)"
// @Success 200 {array} domain.CategoryTotal
// @Security BearerAuth
// @Router /analytics/categories [get]
func (h *analyticsHandler) categories(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	totals, err := h.analyticsService.Categories(c.Request.Context(), owner, c.Query("month"))
	if err != nil {
		respondError(c, err, "Failed to compute categories")
		return
	}
	if totals == nil {
		totals = []domain.CategoryTotal{}
	}
	c.JSON(http.StatusOK, totals)
}

// patterns godoc
// @Summary Spending patterns
// @Tags analytics
// @Produce json
// @Success 200 {object} domain.SpendingPatterns
// @Security BearerAuth
// @Router /analytics/patterns [get]
func (h *analyticsHandler) patterns(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	patterns, err := h.analyticsService.Patterns(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to compute patterns")
		return
	}
	c.JSON(http.StatusOK, patterns)
}

// insights godoc
// @Summary Budget insights
// @Tags analytics
// @Produce json
// @Success 200 {array} domain.Insight
// @Security BearerAuth
// @Router /analytics/insights [get]
func (h *analyticsHandler) insights(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	insights, err := h.analyticsService.Insights(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to compute insights")
		return
	}
	if insights == nil {
		insights = []domain.Insight{}
	}
	c.JSON(http.StatusOK, insights)
}
