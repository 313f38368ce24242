package api

import (
	"net/http"
	"strconv"

	apperrors "tour-backoffice/internal/common/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) searchSuppliers(c *gin.Context) {
	if h.search == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{
			"code":    "SEARCH_DISABLED",
			"message": "supplier search is not configured",
		}})
		return
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.errors.Respond(c, apperrors.NewInvalidArgumentError("size", "must be a non-negative integer"))
			return
		}
		size = n
	}

	result, err := h.search.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
