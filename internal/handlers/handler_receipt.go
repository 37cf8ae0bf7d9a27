package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// maxReceiptUploadBytes is one byte over the service limit so oversized images reach the service check.
const maxReceiptUploadBytes = 10<<20 + 1

type receiptHandler struct {
	receiptService portssvc.ReceiptSvc
}

func registerReceiptRoutes(rg *gin.RouterGroup, receipts portssvc.ReceiptSvc) {
	h := &receiptHandler{receiptService: receipts}

	r := rg.Group("/receipts")
	{
		r.POST("/scan", h.scan)
		r.POST("/parse", h.parse)
	}
}

// scan godoc
// @Summary Scan a receipt image
// @Description Runs OCR on the uploaded image, parses vendor, amount and date, and records the expense.
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Receipt image"
// @Success 201 {object} domain.ReceiptScan
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "OCR unavailable"
// @Security BearerAuth
// @Router /receipts/scan [post]
func (h *receiptHandler) scan(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		respondError(c, fmt.Errorf("%w: multipart field \"image\" is required", apperrors.ErrInvalidInput), "Failed to scan receipt")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Failed to read receipt")
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, maxReceiptUploadBytes))
	if err != nil {
		respondError(c, err, "Failed to read receipt")
		return
	}

	scan, err := h.receiptService.Scan(c.Request.Context(), owner, fh.Filename, image)
	if err != nil {
		respondError(c, err, "Failed to scan receipt")
		return
	}
	c.JSON(http.StatusCreated, scan)
}

// parse godoc
// @Summary Parse receipt text
// @Description Parses already-extracted receipt text and records the expense.
// @Tags receipts
// @Accept json
// @Produce json
// @Param receipt body dto.ParseReceiptRequest true "Receipt text"
// @Success 201 {object} domain.ReceiptScan
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /receipts/parse [post]
func (h *receiptHandler) parse(c *gin.Context) {
	owner, ok := mustOwner(c)
	if !ok {
		return
	}
	var req dto.ParseReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	scan, err := h.receiptService.ScanText(c.Request.Context(), owner, req.Text)
	if err != nil {
		respondError(c, err, "Failed to parse receipt")
		return
	}
	c.JSON(http.StatusCreated, scan)
}
