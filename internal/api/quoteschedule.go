package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/metrics"
	"tour-backoffice/internal/models"
	"tour-backoffice/internal/spreadsheet"
	"tour-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type importResponse struct {
	Imported int            `json:"imported"`
	Records  []store.Record `json:"records"`
}

// parseQuoteSchedule previews an upload without storing anything.
func (h *Handler) parseQuoteSchedule(c *gin.Context) {
	rows, ok := h.readSchedule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

// importQuoteSchedule stores every row of an upload or none of them.
func (h *Handler) importQuoteSchedule(c *gin.Context) {
	rows, ok := h.readSchedule(c)
	if !ok {
		return
	}

	docs := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		data, err := store.ToData(row)
		if err != nil {
			h.errors.Respond(c, apperrors.NewInternalError(err))
			return
		}
		docs[i] = data
	}

	records, err := h.records.CreateMany(c.Request.Context(), models.ResourceQuoteSchedule, docs)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	metrics.SpreadsheetRowsImported.Add(float64(len(records)))
	h.logger.Info("quote schedule imported", map[string]interface{}{"rows": len(records)})

	c.JSON(http.StatusCreated, importResponse{Imported: len(records), Records: records})
}

func (h *Handler) exportQuoteSchedule(c *gin.Context) {
	ctx := c.Request.Context()
	started := time.Now()

	records, err := h.records.List(ctx, models.ResourceQuoteSchedule)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	rows := make([]spreadsheet.QuoteScheduleRow, len(records))
	for i, rec := range records {
		if err := decodeRecord(rec, &rows[i]); err != nil {
			h.errors.Respond(c, err)
			return
		}
	}

	data, err := spreadsheet.Render(rows)
	h.obs.Track(ctx, "spreadsheet.render", started, err)
	if err != nil {
		h.errors.Respond(c, apperrors.NewDocumentRenderFailedError("quote schedule", err))
		return
	}
	name := h.spreadsheet.ExportName
	if name == "" {
		name = "Quote_Schedule"
	}
	attach(c, name+".xlsx", contentTypeXLSX, data)
}

// readSchedule parses the workbook sent either as a multipart "file" field
// or as the raw request body.
func (h *Handler) readSchedule(c *gin.Context) ([]spreadsheet.QuoteScheduleRow, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	data, err := uploadBytes(c)
	if err != nil {
		h.errors.Respond(c, apperrors.NewInvalidArgumentError("file", err.Error()))
		return nil, false
	}

	started := time.Now()
	rows, err := spreadsheet.Parse(data)
	h.obs.Track(c.Request.Context(), "spreadsheet.parse", started, err)
	if err != nil {
		h.errors.Respond(c, err)
		return nil, false
	}
	if limit := h.spreadsheet.MaxRows; limit > 0 && len(rows) > limit {
		h.errors.Respond(c, apperrors.NewInvalidArgumentError("file",
			fmt.Sprintf("%d rows exceed the limit of %d", len(rows), limit)))
		return nil, false
	}
	return rows, true
}

func uploadBytes(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("request body is empty")
	}
	return data, nil
}
