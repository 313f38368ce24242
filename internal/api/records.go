package api

import (
	"net/http"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) list(resource models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.records.List(c.Request.Context(), resource)
		if err != nil {
			h.errors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func (h *Handler) get(resource models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := h.records.Get(c.Request.Context(), resource, c.Param("id"))
		if err != nil {
			h.errors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *Handler) create(resource models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := h.bindDocument(c)
		if !ok {
			return
		}
		rec, err := h.records.Create(c.Request.Context(), resource, data)
		if err != nil {
			h.errors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

func (h *Handler) patch(resource models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := h.bindDocument(c)
		if !ok {
			return
		}
		rec, err := h.records.Patch(c.Request.Context(), resource, c.Param("id"), data)
		if err != nil {
			h.errors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (h *Handler) remove(resource models.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.records.Delete(c.Request.Context(), resource, c.Param("id")); err != nil {
			h.errors.Respond(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) bindDocument(c *gin.Context) (map[string]interface{}, bool) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		h.errors.Respond(c, apperrors.NewValidationError("request body must be a JSON object: "+err.Error()))
		return nil, false
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return data, true
}

// bindJSON decodes the request body into v, responding on failure.
func (h *Handler) bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.errors.Respond(c, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}
