package handler

import (
	"encoding/json"
	"net/http"

	"timebill/internal/service"
	"timebill/pkg/response"

	"github.com/gin-gonic/gin"
)

// Imports larger than this are almost certainly not timesheets.
const maxImportSize = 10 << 20 // 10 MiB

type ImportHandler struct {
	importService service.ImportService
}

func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/imports", h.ImportFile)
}

// ImportFile imports billable items from a CSV or Excel timesheet
// @Summary      Import timesheet
// @Description  Parses a CSV or Excel file and creates billable items for a company. The import is all-or-nothing: any rejected row aborts the whole file and the report lists every failure.
// @Tags         imports
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        company_id      formData  string  true   "Company ID the rows belong to"
// @Param        file            formData  file    true   "CSV (.csv) or Excel (.xlsx) timesheet"
// @Param        column_mapping  formData  string  false  "JSON object renaming source headers, e.g. {\"Datum\":\"date_worked\"}"
// @Success      201  {object}  response.Response{data=service.ImportReport}
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response{data=service.ImportReport}
// @Router       /api/imports [post]
func (h *ImportHandler) ImportFile(c *gin.Context) {
	companyID := c.PostForm("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "company_id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required: "+err.Error()))
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file exceeds the 10 MiB import limit"))
		return
	}

	var mapping map[string]string
	if raw := c.PostForm("column_mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid column_mapping: "+err.Error()))
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to open upload: "+err.Error()))
		return
	}
	defer file.Close()

	req := service.ImportRequest{
		CompanyID:     companyID,
		FileName:      fileHeader.Filename,
		ColumnMapping: mapping,
	}

	report, err := h.importService.ImportFile(c.Request.Context(), req, file)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	// Rejected rows abort the import; the report carries the row errors.
	if report.RejectedCount > 0 {
		c.JSON(http.StatusUnprocessableEntity, response.Response{
			Status:     "error",
			StatusCode: http.StatusUnprocessableEntity,
			Data:       report,
			Error:      "import rejected, no rows were persisted",
		})
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}
