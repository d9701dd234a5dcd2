package handler

import (
	"net/http"

	"timebill/internal/render"
	"timebill/internal/service"
	"timebill/pkg/pagination"
	"timebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	renderer       *render.Renderer
}

func NewInvoiceHandler(invoiceService service.InvoiceService, renderer *render.Renderer) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		renderer:       renderer,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("", h.AssembleInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id/issue", h.IssueInvoice)
		invoices.PUT("/:id/pay", h.MarkPaid)
		invoices.PUT("/:id/cancel", h.CancelInvoice)
		invoices.GET("/:id/document", h.DownloadDocument)
	}
}

// AssembleInvoice builds a draft invoice from unbilled items
// @Summary      Assemble invoice
// @Description  Collects a company's unbilled items in a date range, groups them into line items and creates a draft invoice. The source items are frozen atomically.
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AssembleInvoiceRequest  true  "Assemble Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) AssembleInvoice(c *gin.Context) {
	var req service.AssembleInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.AssembleInvoice(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list of invoices
// @Summary      List invoices
// @Description  Retrieves invoices filtered by company, status or invoice number
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query     string  false  "Filter by company ID"
// @Param        status      query     string  false  "Filter by status (DRAFT, ISSUED, PAID, CANCELLED)"
// @Param        number      query     string  false  "Filter by invoice number substring"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.InvoiceFilter{
		CompanyID: c.Query("company_id"),
		Status:    c.Query("status"),
		Number:    c.Query("number"),
		Page:      params.Page,
		Limit:     params.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetInvoice returns a single invoice with its line items
// @Summary      Get invoice
// @Description  Retrieves a single invoice with line items by ID
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// IssueInvoice moves a draft invoice to ISSUED
// @Summary      Issue invoice
// @Description  Transitions a DRAFT invoice to ISSUED
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/invoices/{id}/issue [put]
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// MarkPaid records payment of an issued invoice
// @Summary      Mark invoice paid
// @Description  Transitions an ISSUED invoice to PAID and records the payment date
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true   "Invoice ID"
// @Param        payload  body      service.MarkPaidRequest false  "Payment details"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/invoices/{id}/pay [put]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	var req service.MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// CancelInvoice voids a draft invoice
// @Summary      Cancel invoice
// @Description  Cancels a DRAFT invoice and releases its billable items back into the unbilled pool
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/invoices/{id}/cancel [put]
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DownloadDocument renders the invoice as a downloadable PDF or Word file
// @Summary      Download invoice document
// @Description  Renders the invoice in the requested locale layout (en, pl) and format (pdf, docx). Rendering an unchanged invoice returns identical bytes.
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id      path      string  true   "Invoice ID"
// @Param        locale  query     string  false  "Layout locale: en (default) or pl"
// @Param        format  query     string  false  "Document format: pdf (default) or docx"
// @Success      200     {file}    file
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      422     {object}  response.Response
// @Router       /api/invoices/{id}/document [get]
func (h *InvoiceHandler) DownloadDocument(c *gin.Context) {
	locale := render.Locale(c.DefaultQuery("locale", string(render.LocaleEN)))
	format := render.Format(c.DefaultQuery("format", string(render.FormatPDF)))

	doc, err := h.invoiceService.GetInvoiceDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	data, err := h.renderer.Render(doc, locale, format)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+render.FileName(doc.Number, format)+`"`)
	c.Data(http.StatusOK, render.ContentType(format), data)
}
