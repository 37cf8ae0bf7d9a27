package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// maxCSVUploadBytes bounds CSV imports.
const maxCSVUploadBytes = 5 << 20

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledger portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledger}
}

// registerLedgerRoutes wires the personal expense and income routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledger)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/export", h.exportExpenses)
		expenses.POST("/import", h.importExpenses)
		expenses.DELETE("/:id", h.deleteExpense)
	}

	income := rg.Group("/income")
	{
		income.POST("", h.createIncome)
		income.GET("", h.listIncome)
		income.GET("/export", h.exportIncome)
		income.POST("/import", h.importIncome)
		income.DELETE("/:id", h.deleteIncome)
	}

	rg.POST("/ledger/reset-month", h.resetMonth)
	rg.DELETE("/me/data", h.deleteAllData)
}

// createExpense godoc
// @Summary Record an expense
// @Tags ledger
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *ledgerHandler) createExpense(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	date, err := dto.ParseOptionalDate(req.Date)
	if err != nil {
		respondError(c, err, "Failed to record expense")
		return
	}

	expense, err := h.ledgerService.RecordExpense(c.Request.Context(), owner, req.Category, *req.Amount, date)
	if err != nil {
		respondError(c, err, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(*expense))
}

// listExpenses godoc
// @Summary List expenses
// @Description Lists the caller's expenses in date order, optionally for one month ("YYYY-MM").
// @Tags ledger
// @Produce json
// @Param month query string false "Month filter (YYYY-MM)"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *ledgerHandler) listExpenses(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var q dto.ListLedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.ledgerService.ListExpenses(c.Request.Context(), owner, q.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExpensesResponse(page))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Tags ledger
// @Param id path int true "Expense ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *ledgerHandler) deleteExpense(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}
	if err := h.ledgerService.DeleteExpense(c.Request.Context(), owner, id); err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// exportExpenses godoc
// @Summary Export expenses as CSV
// @Tags ledger
// @Produce text/csv
// @Success 200 {string} string "date,category,amount rows"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/export [get]
func (h *ledgerHandler) exportExpenses(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.ledgerService.ExportExpensesCSV(c.Request.Context(), owner, &buf); err != nil {
		respondError(c, err, "Failed to export expenses")
		return
	}
	sendCSV(c, "expenses.csv", buf.Bytes())
}

// importExpenses godoc
// @Summary Import expenses from CSV
// @Description Accepts a multipart "file" field or a raw text/csv body. Any invalid row rejects the whole file.
// @Tags ledger
// @Accept text/csv
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "CSV file"
// @Success 201 {object} dto.ImportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/import [post]
func (h *ledgerHandler) importExpenses(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	body, err := csvUpload(c)
	if err != nil {
		respondError(c, err, "Failed to import expenses")
		return
	}
	summary, err := h.ledgerService.ImportExpensesCSV(c.Request.Context(), owner, bytes.NewReader(body))
	if err != nil {
		respondError(c, err, "Failed to import expenses")
		return
	}
	c.JSON(http.StatusCreated, dto.ImportResponse{Imported: summary.Imported})
}

// createIncome godoc
// @Summary Record income
// @Tags ledger
// @Accept json
// @Produce json
// @Param income body dto.CreateIncomeRequest true "Income"
// @Success 201 {object} dto.IncomeResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /income [post]
func (h *ledgerHandler) createIncome(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}

	var req dto.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	date, err := dto.ParseOptionalDate(req.Date)
	if err != nil {
		respondError(c, err, "Failed to record income")
		return
	}

	income, err := h.ledgerService.RecordIncome(c.Request.Context(), owner, *req.Amount, date, req.Source)
	if err != nil {
		respondError(c, err, "Failed to record income")
		return
	}
	c.JSON(http.StatusCreated, dto.ToIncomeResponse(*income))
}

// listIncome godoc
// @Summary List income
// @Tags ledger
// @Produce json
// @Param month query string false "Month filter (YYYY-MM)"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListIncomeResponse
// @Security BearerAuth
// @Router /income [get]
func (h *ledgerHandler) listIncome(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var q dto.ListLedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.ledgerService.ListIncome(c.Request.Context(), owner, q.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list income")
		return
	}
	c.JSON(http.StatusOK, dto.ToListIncomeResponse(page))
}

// deleteIncome godoc
// @Summary Delete an income row
// @Tags ledger
// @Param id path int true "Income ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /income/{id} [delete]
func (h *ledgerHandler) deleteIncome(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to delete income")
		return
	}
	if err := h.ledgerService.DeleteIncome(c.Request.Context(), owner, id); err != nil {
		respondError(c, err, "Failed to delete income")
		return
	}
	c.Status(http.StatusNoContent)
}

// exportIncome godoc
// @Summary Export income as CSV
// @Tags ledger
// @Produce text/csv
// @Success 200 {string} string "date,source,amount rows"
// @Security BearerAuth
// @Router /income/export [get]
func (h *ledgerHandler) exportIncome(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.ledgerService.ExportIncomeCSV(c.Request.Context(), owner, &buf); err != nil {
		respondError(c, err, "Failed to export income")
		return
	}
	sendCSV(c, "income.csv", buf.Bytes())
}

// importIncome godoc
// @Summary Import income from CSV
// @Tags ledger
// @Accept text/csv
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "CSV file"
// @Success 201 {object} dto.ImportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /income/import [post]
func (h *ledgerHandler) importIncome(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	body, err := csvUpload(c)
	if err != nil {
		respondError(c, err, "Failed to import income")
		return
	}
	summary, err := h.ledgerService.ImportIncomeCSV(c.Request.Context(), owner, bytes.NewReader(body))
	if err != nil {
		respondError(c, err, "Failed to import income")
		return
	}
	c.JSON(http.StatusCreated, dto.ImportResponse{Imported: summary.Imported})
}

// resetMonth godoc
// @Summary Reset the current month
// @Description Deletes the caller's expenses and income dated in the current calendar month.
// @Tags ledger
// @Produce json
// @Success 200 {object} domain.ResetSummary
// @Security BearerAuth
// @Router /ledger/reset-month [post]
func (h *ledgerHandler) resetMonth(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	summary, err := h.ledgerService.ResetCurrentMonth(c.Request.Context(), owner, timeNow())
	if err != nil {
		respondError(c, err, "Failed to reset month")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// deleteAllData godoc
// @Summary Delete all ledger data
// @Description Deletes every expense and income row of the caller. The identity itself is kept.
// @Tags auth
// @Produce json
// @Success 200 {object} domain.ResetSummary
// @Security BearerAuth
// @Router /me/data [delete]
func (h *ledgerHandler) deleteAllData(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	summary, err := h.ledgerService.DeleteAllUserData(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to delete data")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", apperrors.ErrInvalidInput, raw)
	}
	return id, nil
}

func sendCSV(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// csvUpload reads the CSV either from the multipart "file" field or from the raw body.
func csvUpload(c *gin.Context) ([]byte, error) {
	var src io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: multipart field \"file\" is required", apperrors.ErrInvalidInput)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		src = f
	} else {
		src = c.Request.Body
	}

	body, err := io.ReadAll(io.LimitReader(src, maxCSVUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(body) > maxCSVUploadBytes {
		return nil, fmt.Errorf("%w: csv upload is larger than %d bytes", apperrors.ErrInvalidInput, maxCSVUploadBytes)
	}
	return body, nil
}
