package handler

import (
	"net/http"

	"timebill/internal/service"
	"timebill/pkg/pagination"
	"timebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type BillableItemHandler struct {
	itemService service.BillableItemService
}

func NewBillableItemHandler(itemService service.BillableItemService) *BillableItemHandler {
	return &BillableItemHandler{itemService: itemService}
}

func (h *BillableItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
	}
}

// CreateItem records a billable work entry
// @Summary      Create billable item
// @Description  Records a unit of billable work for a company
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/items [post]
func (h *BillableItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListItems returns a paginated list of billable items
// @Summary      List billable items
// @Description  Retrieves billable items filtered by company, date range and invoiced flag
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query     string  false  "Filter by company ID"
// @Param        from        query     string  false  "Work date lower bound (YYYY-MM-DD)"
// @Param        to          query     string  false  "Work date upper bound (YYYY-MM-DD)"
// @Param        invoiced    query     bool    false  "Filter by invoiced state"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Failure      500         {object}  response.Response
// @Router       /api/items [get]
func (h *BillableItemHandler) ListItems(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.ItemFilter{
		CompanyID: c.Query("company_id"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		Page:      params.Page,
		Limit:     params.Limit,
	}
	if raw := c.Query("invoiced"); raw != "" {
		invoiced := raw == "true"
		filter.Invoiced = &invoiced
	}

	items, total, err := h.itemService.ListItems(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetItem returns a single billable item by ID
// @Summary      Get billable item
// @Description  Retrieves a single billable item by ID
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.ItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [get]
func (h *BillableItemHandler) GetItem(c *gin.Context) {
	item, err := h.itemService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem updates an unbilled item
// @Summary      Update billable item
// @Description  Updates the provided fields of an item; invoiced items are frozen
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Item ID"
// @Param        payload  body      service.UpdateItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/items/{id} [put]
func (h *BillableItemHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an unbilled item
// @Summary      Delete billable item
// @Description  Deletes an item; invoiced items are frozen and cannot be deleted
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *BillableItemHandler) DeleteItem(c *gin.Context) {
	if err := h.itemService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
