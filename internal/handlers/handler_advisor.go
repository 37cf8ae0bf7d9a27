package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type advisorHandler struct {
	advisorService portssvc.AdvisorSvc
}

func registerAdvisorRoutes(rg *gin.RouterGroup, advisor portssvc.AdvisorSvc) {
	h := &advisorHandler{advisorService: advisor}
	rg.POST("/advisor/ask", h.ask)
}

// ask godoc
// @Summary Ask the advisor
// @Description Answers from the ledger when the question is recognised, otherwise asks the LLM and falls back to a canned reply when it fails.
// @Tags advisor
// @Accept json
// @Produce json
// @Param question body dto.AskRequest true "Question"
// @Success 200 {object} domain.AdvisorReply
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /advisor/ask [post]
func (h *advisorHandler) ask(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reply, err := h.advisorService.Ask(c.Request.Context(), owner, req.Question)
	if err != nil {
		respondError(c, err, "Failed to answer question")
		return
	}
	c.JSON(http.StatusOK, reply)
}
