package handler

import (
	"net/http"

	"timebill/internal/service"
	"timebill/pkg/pagination"
	"timebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService service.CompanyService
}

func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	companies := router.Group("/api/companies")
	{
		companies.POST("", h.CreateCompany)
		companies.GET("", h.ListCompanies)
		companies.GET("/:id", h.GetCompany)
		companies.PUT("/:id", h.UpdateCompany)
		companies.DELETE("/:id", h.DeactivateCompany)
	}
}

// CreateCompany registers a new client company
// @Summary      Create company
// @Description  Registers a new client company with a default hourly rate
// @Tags         companies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCompanyRequest  true  "Create Company Payload"
// @Success      201      {object}  response.Response{data=service.CompanyResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req service.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, company))
}

// ListCompanies returns a paginated list of companies
// @Summary      List companies
// @Description  Retrieves a paginated list of companies, optionally filtered by name search
// @Tags         companies
// @Security     BearerAuth
// @Produce      json
// @Param        search       query     string  false  "Filter by name (case-insensitive substring)"
// @Param        active_only  query     bool    false  "Only active companies (default true)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /api/companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.DefaultQuery("active_only", "true") == "true"

	companies, total, err := h.companyService.ListCompanies(c.Request.Context(), c.Query("search"), activeOnly, params.Page, params.Limit)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"companies": companies,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// GetCompany returns a single company by ID
// @Summary      Get company
// @Description  Retrieves a single company by ID
// @Tags         companies
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response{data=service.CompanyResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// UpdateCompany updates company fields
// @Summary      Update company
// @Description  Updates the provided fields of a company
// @Tags         companies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Company ID"
// @Param        payload  body      service.UpdateCompanyRequest  true  "Update Company Payload"
// @Success      200      {object}  response.Response{data=service.CompanyResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req service.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// DeactivateCompany hides a company from selection
// @Summary      Deactivate company
// @Description  Marks a company inactive; its invoices and items are preserved
// @Tags         companies
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) DeactivateCompany(c *gin.Context) {
	if err := h.companyService.DeactivateCompany(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deactivated": true}))
}
