package api

import (
	"net/http"
	"strconv"
	"time"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/documents"
	"tour-backoffice/internal/models"
	"tour-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypePDF  = "application/pdf"
)

// document is a generated text ready to be sent.
type document struct {
	kind     string
	title    string
	text     string
	filename string
	qr       string
}

func (h *Handler) voucher(c *gin.Context) {
	var v documents.VoucherData
	if !h.bindJSON(c, &v) {
		return
	}
	if v.Operator == (documents.Operator{}) {
		v.Operator = h.operator
	}
	started := time.Now()
	doc := document{
		kind:     documents.KindVoucher,
		title:    "Service Voucher " + v.BookingReference,
		text:     documents.GenerateVoucher(v),
		filename: documents.Filename(documents.KindVoucher, v.BookingReference, v.ClientName),
		qr:       v.BookingReference,
	}
	h.sendDocument(c, doc, started)
}

func (h *Handler) tourManual(c *gin.Context) {
	var m documents.TourManualData
	if !h.bindJSON(c, &m) {
		return
	}
	if m.Operator == (documents.Operator{}) {
		m.Operator = h.operator
	}
	started := time.Now()
	doc := document{
		kind:     documents.KindTourManual,
		title:    "Tour Manual " + m.TourName,
		text:     documents.GenerateTourManual(m),
		filename: documents.Filename(documents.KindTourManual, m.TourCode, m.TourName),
	}
	h.sendDocument(c, doc, started)
}

func (h *Handler) overnightList(c *gin.Context) {
	var list documents.OvernightList
	if !h.bindJSON(c, &list) {
		return
	}
	h.sendDocument(c, overnightDocument(list), time.Now())
}

func (h *Handler) storedOvernightList(c *gin.Context) {
	list, ok := h.loadOvernightList(c)
	if !ok {
		return
	}
	h.sendDocument(c, overnightDocument(list), time.Now())
}

func overnightDocument(list documents.OvernightList) document {
	return document{
		kind:     documents.KindOvernightList,
		title:    "Overnight List " + list.TourName,
		text:     documents.GenerateOvernightList(list),
		filename: documents.Filename(documents.KindOvernightList, list.TourCode, list.TourName),
	}
}

// sendDocument writes doc as a text download, or as a PDF when the request
// asks for format=pdf.
func (h *Handler) sendDocument(c *gin.Context, doc document, started time.Time) {
	ctx := c.Request.Context()
	op := "document." + doc.kind

	switch format := c.DefaultQuery("format", "txt"); format {
	case "txt", "text":
		h.obs.Track(ctx, op, started, nil)
		attach(c, doc.filename, contentTypeText, []byte(doc.text))
	case "pdf":
		pdf, err := documents.RenderPDF(doc.title, doc.text, documents.PDFOptions{Font: h.pdfFont, QRPayload: doc.qr})
		h.obs.Track(ctx, op+".pdf", started, err)
		if err != nil {
			h.errors.Respond(c, apperrors.NewDocumentRenderFailedError(doc.kind, err))
			return
		}
		attach(c, documents.WithExtension(doc.filename, ".pdf"), contentTypePDF, pdf)
	default:
		h.errors.Respond(c, apperrors.NewInvalidArgumentError("format", "must be txt or pdf, got "+strconv.Quote(format)))
	}
}

func attach(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, body)
}

func (h *Handler) appendOvernightEntry(c *gin.Context) {
	var entry documents.OvernightEntry
	if !h.bindJSON(c, &entry) {
		return
	}
	list, ok := h.loadOvernightList(c)
	if !ok {
		return
	}
	h.saveOvernightEntries(c, documents.AppendEntry(list.Entries, entry), http.StatusCreated)
}

func (h *Handler) removeOvernightEntry(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.errors.Respond(c, apperrors.NewInvalidArgumentError("index", "must be an integer"))
		return
	}
	list, ok := h.loadOvernightList(c)
	if !ok {
		return
	}
	entries, err := documents.RemoveEntry(list.Entries, index)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	h.saveOvernightEntries(c, entries, http.StatusOK)
}

func (h *Handler) loadOvernightList(c *gin.Context) (documents.OvernightList, bool) {
	var list documents.OvernightList
	rec, err := h.records.Get(c.Request.Context(), models.ResourceOvernightLists, c.Param("id"))
	if err == nil {
		err = decodeRecord(*rec, &list)
	}
	if err != nil {
		h.errors.Respond(c, err)
		return list, false
	}
	return list, true
}

func (h *Handler) saveOvernightEntries(c *gin.Context, entries []documents.OvernightEntry, status int) {
	if entries == nil {
		entries = []documents.OvernightEntry{}
	}
	data, err := store.ToData(struct {
		Entries []documents.OvernightEntry `json:"entries"`
	}{entries})
	if err != nil {
		h.errors.Respond(c, apperrors.NewInternalError(err))
		return
	}
	rec, err := h.records.Patch(c.Request.Context(), models.ResourceOvernightLists, c.Param("id"), data)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(status, rec)
}
