package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxdesk/internal/csvexport"
	"taxdesk/internal/domain"
	"taxdesk/internal/service"
)

// EInvoiceHandler handles e-invoice endpoints.
type EInvoiceHandler struct {
	einvoiceService service.EInvoiceService
}

// NewEInvoiceHandler creates a new EInvoiceHandler.
func NewEInvoiceHandler(einvoiceService service.EInvoiceService) *EInvoiceHandler {
	return &EInvoiceHandler{einvoiceService: einvoiceService}
}

// Create handles POST /api/v1/einvoices
// @Summary Create an e-invoice draft
// @Description Create an e-invoice draft; totals are computed by the engine and the candidate is validated before being stored
// @Tags einvoices
// @Accept json
// @Produce json
// @Param request body service.CreateEInvoiceInput true "E-invoice details"
// @Success 201 {object} APIResponse{data=domain.EInvoice} "Draft created"
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 422 {object} APIResponse "Validation failed"
// @Router /einvoices [post]
func (h *EInvoiceHandler) Create(c *gin.Context) {
	var req service.CreateEInvoiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invoice_number and invoice_date are required")
		return
	}

	e, err := h.einvoiceService.Create(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, e)
}

// GetByID handles GET /api/v1/einvoices/:id
// @Summary Get e-invoice by ID
// @Tags einvoices
// @Produce json
// @Param id path string true "E-invoice ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.EInvoice}
// @Failure 404 {object} APIResponse "Not found"
// @Router /einvoices/{id} [get]
func (h *EInvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.einvoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}

// List handles GET /api/v1/einvoices
// @Summary List e-invoices
// @Description List e-invoices newest-first, optionally filtered by status
// @Tags einvoices
// @Produce json
// @Param status query string false "Filter by status"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Pagination limit (default 20)"
// @Success 200 {object} APIResponse{data=[]domain.EInvoice}
// @Router /einvoices [get]
func (h *EInvoiceHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	if statusParam := c.Query("status"); statusParam != "" {
		status := domain.EInvoiceStatus(statusParam)
		if !domain.ValidStatuses[status] {
			HandleError(c, domain.ErrInvalidStatus)
			return
		}
		list, total, err := h.einvoiceService.ListByStatus(c.Request.Context(), status, offset, limit)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondPaginated(c, list, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	list, total, err := h.einvoiceService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, list, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Search handles GET /api/v1/einvoices/search
// @Summary Search e-invoices
// @Description Case-insensitive substring search over invoice number, buyer legal name, IRN and acknowledgment number
// @Tags einvoices
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} APIResponse{data=[]domain.EInvoice}
// @Router /einvoices/search [get]
func (h *EInvoiceHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "query parameter q is required")
		return
	}
	offset, limit := pagination(c)

	list, total, err := h.einvoiceService.Search(c.Request.Context(), query, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, list, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/einvoices/:id
// @Summary Update an e-invoice draft
// @Description Apply a typed patch to a draft; line items are renumbered and totals recomputed
// @Tags einvoices
// @Accept json
// @Produce json
// @Param id path string true "E-invoice ID (UUID)"
// @Param request body service.UpdateEInvoiceInput true "Fields to update"
// @Success 200 {object} APIResponse{data=domain.EInvoice}
// @Failure 409 {object} APIResponse "Not editable in current status"
// @Failure 422 {object} APIResponse "Validation failed"
// @Router /einvoices/{id} [put]
func (h *EInvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateEInvoiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed update payload")
		return
	}

	e, err := h.einvoiceService.Update(c.Request.Context(), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}

// Delete handles DELETE /api/v1/einvoices/:id
// @Summary Delete an e-invoice
// @Tags einvoices
// @Produce json
// @Param id path string true "E-invoice ID (UUID)"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "Not found"
// @Router /einvoices/{id} [delete]
func (h *EInvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.einvoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// Submit handles POST /api/v1/einvoices/:id/submit
// @Summary Submit an e-invoice for registration
// @Description Register the document with the simulated portal; on success it is acknowledged with IRN, ack number and QR payload
// @Tags einvoices
// @Produce json
// @Param id path string true "E-invoice ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.EInvoice} "Acknowledged"
// @Failure 409 {object} APIResponse "Illegal transition"
// @Failure 502 {object} APIResponse{data=domain.EInvoice} "Registration failed; document marked failed"
// @Router /einvoices/{id}/submit [post]
func (h *EInvoiceHandler) Submit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.einvoiceService.Submit(c.Request.Context(), id)
	if err != nil {
		// A submission fault surfaces the faulted aggregate alongside
		// the error so the caller can inspect the diagnostic.
		if errors.Is(err, domain.ErrSubmissionFailed) && e != nil {
			c.JSON(http.StatusBadGateway, APIResponse{
				Success: false,
				Data:    e,
				Error: &APIError{
					Code:    "SUBMISSION_FAILED",
					Message: e.ErrorDetail,
				},
			})
			return
		}
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}

// Cancel handles POST /api/v1/einvoices/:id/cancel
// @Summary Cancel an acknowledged e-invoice
// @Description Cancel within 24 hours of acknowledgment; a reason is mandatory
// @Tags einvoices
// @Accept json
// @Produce json
// @Param id path string true "E-invoice ID (UUID)"
// @Param request body CancelRequest true "Cancellation reason"
// @Success 200 {object} APIResponse{data=domain.EInvoice}
// @Failure 409 {object} APIResponse "Illegal transition or window expired"
// @Router /einvoices/{id}/cancel [post]
func (h *EInvoiceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "reason is required")
		return
	}

	e, err := h.einvoiceService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, e)
}

// Convert handles POST /api/v1/einvoices/convert
// @Summary Convert a generic sales invoice into an e-invoice draft
// @Description Map a billing invoice to the e-invoice schema with the configured supplier block; the draft is returned without being stored
// @Tags einvoices
// @Accept json
// @Produce json
// @Param request body domain.Invoice true "Generic sales invoice"
// @Success 200 {object} APIResponse{data=domain.EInvoice}
// @Router /einvoices/convert [post]
func (h *EInvoiceHandler) Convert(c *gin.Context) {
	var inv domain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed invoice payload")
		return
	}

	RespondOK(c, h.einvoiceService.Convert(&inv))
}

// Validate handles POST /api/v1/einvoices/validate
// @Summary Validate a candidate e-invoice
// @Description Run structural validation only; nothing is stored
// @Tags einvoices
// @Accept json
// @Produce json
// @Param request body domain.EInvoice true "Candidate e-invoice"
// @Success 200 {object} APIResponse "Ordered list of validation errors; empty means valid"
// @Router /einvoices/validate [post]
func (h *EInvoiceHandler) Validate(c *gin.Context) {
	var e domain.EInvoice
	if err := c.ShouldBindJSON(&e); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed e-invoice payload")
		return
	}

	errs := h.einvoiceService.Validate(&e)
	RespondOK(c, gin.H{"valid": len(errs) == 0, "errors": errs})
}

// exportBatchSize is the page size used when streaming a CSV export.
const exportBatchSize = 200

// ExportCSV handles GET /api/v1/einvoices/export/csv
// @Summary Export e-invoices as CSV
// @Description Stream all e-invoices, optionally filtered by status, as a CSV download with a UTF-8 BOM
// @Tags einvoices
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {file} file "CSV download"
// @Router /einvoices/export/csv [get]
func (h *EInvoiceHandler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()

	var status domain.EInvoiceStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status = domain.EInvoiceStatus(statusParam)
		if !domain.ValidStatuses[status] {
			HandleError(c, domain.ErrInvalidStatus)
			return
		}
	}

	fetch := func(offset int) ([]domain.EInvoice, int, error) {
		if status != "" {
			return h.einvoiceService.ListByStatus(ctx, status, offset, exportBatchSize)
		}
		return h.einvoiceService.List(ctx, offset, exportBatchSize)
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("einvoices")+`"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}

	for offset := 0; ; offset += exportBatchSize {
		batch, total, err := fetch(offset)
		if err != nil {
			// Headers are out the door; all we can do is stop writing.
			log.Printf("EInvoiceHandler.ExportCSV: listing e-invoices at offset %d: %v", offset, err)
			return
		}
		if err := w.WriteEInvoices(batch); err != nil {
			return
		}
		if offset+len(batch) >= total || len(batch) == 0 {
			break
		}
	}
	w.Flush()
}

// Summary handles GET /api/v1/einvoices/summary
// @Summary Count e-invoices per status
// @Tags einvoices
// @Produce json
// @Success 200 {object} APIResponse
// @Router /einvoices/summary [get]
func (h *EInvoiceHandler) Summary(c *gin.Context) {
	counts, err := h.einvoiceService.Summary(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, counts)
}

// CancelRequest is the body of a cancellation call.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid e-invoice ID")
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
