package handler

import (
	"errors"
	"net/http"

	"timebill/internal/render"
	"timebill/internal/service"
	"timebill/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps service sentinel errors onto HTTP status codes. Errors
// without a sentinel fall back to the status of the calling site, usually
// 400 for mutations and 500 for reads.
func writeError(c *gin.Context, err error, fallback int) {
	status := fallback

	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, service.ErrRateMismatch),
		errors.Is(err, service.ErrItemInvoiced),
		errors.Is(err, service.ErrInvalidStatus):
		status = http.StatusConflict
	case errors.Is(err, render.ErrIncompleteSellerInfo):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, render.ErrUnsupportedLocale),
		errors.Is(err, render.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	}

	c.JSON(status, response.Error(status, err.Error()))
}
