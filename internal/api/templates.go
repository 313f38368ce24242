package api

import (
	"net/http"
	"strings"
	"time"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/models"
	"tour-backoffice/internal/notify"
	"tour-backoffice/internal/store"
	"tour-backoffice/internal/templating"

	"github.com/gin-gonic/gin"
)

type renderInlineRequest struct {
	Template templating.TemplateDefinition `json:"template"`
	Context  templating.RenderContext      `json:"context"`
}

type renderStoredRequest struct {
	Context templating.RenderContext `json:"context"`
}

type sendTemplateRequest struct {
	SupplierID string                   `json:"supplierId"`
	To         string                   `json:"to"`
	Context    templating.RenderContext `json:"context"`
}

type sendTemplateResponse struct {
	Rendered     templating.Rendered  `json:"rendered"`
	Notification *models.Notification `json:"notification"`
}

func (h *Handler) renderInline(c *gin.Context) {
	var req renderInlineRequest
	if !h.bindJSON(c, &req) {
		return
	}
	started := time.Now()
	out := templating.Render(req.Template, req.Context)
	h.obs.Track(c.Request.Context(), "template.render", started, nil)
	c.JSON(http.StatusOK, out)
}

func (h *Handler) renderStored(c *gin.Context) {
	var req renderStoredRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	tpl, err := h.loadTemplate(c, c.Param("id"))
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	started := time.Now()
	out := templating.Render(tpl, req.Context)
	h.obs.Track(c.Request.Context(), "template.render", started, nil)
	c.JSON(http.StatusOK, out)
}

// sendTemplate renders a stored template and mails it to a supplier or to an
// explicit address.
func (h *Handler) sendTemplate(c *gin.Context) {
	var req sendTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !h.mailer.Enabled() {
		h.errors.Respond(c, apperrors.NewNotificationDisabledError(models.ChannelEmail))
		return
	}

	ctx := c.Request.Context()
	tpl, err := h.loadTemplate(c, c.Param("id"))
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	to := strings.TrimSpace(req.To)
	if req.SupplierID != "" {
		rec, err := h.records.Get(ctx, models.ResourceSuppliers, req.SupplierID)
		if err != nil {
			h.errors.Respond(c, err)
			return
		}
		var supplier models.Supplier
		if err := rec.Decode(&supplier); err != nil {
			h.errors.Respond(c, apperrors.NewInternalError(err))
			return
		}
		if to == "" {
			to = supplier.Email
		}
	}
	if to == "" {
		h.errors.Respond(c, apperrors.NewInvalidArgumentError("to", "a supplierId with an email or an address is required"))
		return
	}

	started := time.Now()
	out := templating.Render(tpl, req.Context)
	n, err := h.mailer.Send(ctx, notify.Message{
		TemplateID:  tpl.ID,
		RecipientID: req.SupplierID,
		To:          to,
		Subject:     out.Subject,
		Body:        out.Body,
	})
	h.obs.Track(ctx, "template.send", started, err)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, sendTemplateResponse{Rendered: out, Notification: n})
}

func (h *Handler) loadTemplate(c *gin.Context, id string) (templating.TemplateDefinition, error) {
	var tpl templating.TemplateDefinition
	rec, err := h.records.Get(c.Request.Context(), models.ResourceTemplates, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			return tpl, apperrors.NewTemplateNotFoundError(id)
		}
		return tpl, err
	}
	if err := decodeRecord(*rec, &tpl); err != nil {
		return tpl, err
	}
	return tpl, nil
}

func decodeRecord(rec store.Record, v interface{}) error {
	if err := rec.Decode(v); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
