package api

import (
	"net/http"
	"time"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/models"
	"tour-backoffice/internal/pricing"

	"github.com/gin-gonic/gin"
)

type quoteRequest struct {
	Template pricing.QuoteTemplate `json:"template"`
	PaxCount int                   `json:"paxCount"`
	Season   string                `json:"season"`
}

type storedQuoteRequest struct {
	PaxCount int    `json:"paxCount"`
	Season   string `json:"season"`
}

func (h *Handler) quoteInline(c *gin.Context) {
	var req quoteRequest
	if !h.bindQuote(c, &req) {
		return
	}
	h.respondQuote(c, req.Template, req.PaxCount, req.Season)
}

func (h *Handler) quoteStored(c *gin.Context) {
	var req storedQuoteRequest
	if !h.bindQuote(c, &req) {
		return
	}
	rec, err := h.records.Get(c.Request.Context(), models.ResourceQuoteTemplates, c.Param("id"))
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	var tpl pricing.QuoteTemplate
	if err := decodeRecord(*rec, &tpl); err != nil {
		h.errors.Respond(c, err)
		return
	}
	h.respondQuote(c, tpl, req.PaxCount, req.Season)
}

// bindQuote decodes a pricing request. Prices and pax counts that do not
// decode as numbers are argument errors, not schema failures.
func (h *Handler) bindQuote(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.errors.Respond(c, apperrors.NewInvalidArgumentError("body", err.Error()))
		return false
	}
	return true
}

func (h *Handler) respondQuote(c *gin.Context, tpl pricing.QuoteTemplate, pax int, season string) {
	started := time.Now()
	b, err := pricing.Quote(tpl, pax, season)
	h.obs.Track(c.Request.Context(), "pricing.quote", started, err)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
