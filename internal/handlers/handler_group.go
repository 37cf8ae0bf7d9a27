package handlers

import (
	"net/http"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type groupHandler struct {
	groupService portssvc.GroupSvcFacade
}

func newGroupHandler(groups portssvc.GroupSvcFacade) *groupHandler {
	return &groupHandler{groupService: groups}
}

func registerGroupRoutes(rg *gin.RouterGroup, groups portssvc.GroupSvcFacade) {
	h := newGroupHandler(groups)

	g := rg.Group("/groups")
	{
		g.POST("", h.createGroup)
		g.GET("", h.listMyGroups)
		g.POST("/:name/members", h.joinGroup)
		g.GET("/:name/members", h.listMembers)
		g.POST("/:name/expenses", h.recordSharedExpense)
		g.GET("/:name/expenses", h.listSharedExpenses)
		g.GET("/:name/balances", h.balances)
	}
}

// createGroup godoc
// @Summary Create a group
// @Description Creates a named group. A taken name answers 200 with outcome ALREADY_EXISTS instead of failing.
// @Tags groups
// @Accept json
// @Produce json
// @Param group body dto.CreateGroupRequest true "Group"
// @Success 201 {object} domain.CreateGroupResult
// @Success 200 {object} domain.CreateGroupResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups [post]
func (h *groupHandler) createGroup(c *gin.Context) {
	if _, ok := mustOwner(c); !ok {
		return
	}
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.groupService.CreateGroup(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "Failed to create group")
		return
	}
	status := http.StatusOK
	if result.Outcome == domain.GroupCreated {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// listMyGroups godoc
// @Summary List my groups
// @Tags groups
// @Produce json
// @Success 200 {array} domain.Group
// @Security BearerAuth
// @Router /groups [get]
func (h *groupHandler) listMyGroups(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	groups, err := h.groupService.ListGroupsForMember(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to list groups")
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	c.JSON(http.StatusOK, groups)
}

// joinGroup godoc
// @Summary Join a group
// @Description Adds member (default: the caller) to the group. Joining twice is a no-op.
// @Tags groups
// @Accept json
// @Param name path string true "Group name"
// @Param member body dto.JoinGroupRequest false "Member"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{name}/members [post]
func (h *groupHandler) joinGroup(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var req dto.JoinGroupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	member := req.Member
	if member == "" {
		member = owner
	}

	if err := h.groupService.JoinGroup(c.Request.Context(), member, c.Param("name")); err != nil {
		respondError(c, err, "Failed to join group")
		return
	}
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List group members
// @Tags groups
// @Produce json
// @Param name path string true "Group name"
// @Success 200 {array} domain.Membership
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{name}/members [get]
func (h *groupHandler) listMembers(c *gin.Context) {
	if _, ok := mustOwner(c); !ok {
		return
	}
	members, err := h.groupService.ListMembers(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	if members == nil {
		members = []domain.Membership{}
	}
	c.JSON(http.StatusOK, members)
}

// recordSharedExpense godoc
// @Summary Record a shared expense
// @Description Records a spend by the caller, split equally between the caller and splitWith.
// @Tags groups
// @Accept json
// @Produce json
// @Param name path string true "Group name"
// @Param expense body dto.SharedExpenseRequest true "Shared expense"
// @Success 201 {object} dto.SharedExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{name}/expenses [post]
func (h *groupHandler) recordSharedExpense(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var req dto.SharedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	date, err := dto.ParseOptionalDate(req.Date)
	if err != nil {
		respondError(c, err, "Failed to record shared expense")
		return
	}

	expense, err := h.groupService.RecordSharedExpense(c.Request.Context(), c.Param("name"), owner, req.Category, *req.Amount, req.SplitWith, date)
	if err != nil {
		respondError(c, err, "Failed to record shared expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSharedExpenseResponse(*expense))
}

// listSharedExpenses godoc
// @Summary List shared expenses
// @Tags groups
// @Produce json
// @Param name path string true "Group name"
// @Success 200 {array} dto.SharedExpenseResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{name}/expenses [get]
func (h *groupHandler) listSharedExpenses(c *gin.Context) {
	if _, ok := mustOwner(c); !ok {
		return
	}
	expenses, err := h.groupService.GetGroupExpenses(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to list shared expenses")
		return
	}
	c.JSON(http.StatusOK, dto.ToSharedExpenseResponses(expenses))
}

// balances godoc
// @Summary Group balances
// @Description Net position of every participant. Positive means the member is owed money.
// @Tags groups
// @Produce json
// @Param name path string true "Group name"
// @Success 200 {array} domain.MemberBalance
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{name}/balances [get]
func (h *groupHandler) balances(c *gin.Context) {
	if _, ok := mustOwner(c); !ok {
		return
	}
	balances, err := h.groupService.GroupBalances(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to compute balances")
		return
	}
	if balances == nil {
		balances = []domain.MemberBalance{}
	}
	c.JSON(http.StatusOK, balances)
}
