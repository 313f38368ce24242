package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) {
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.errors = append(l.errors, msg)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeParseError, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeTemplateNotFound, http.StatusNotFound},
		{ErrCodeRowParseError, http.StatusUnprocessableEntity},
		{ErrCodeNotificationDisabled, http.StatusServiceUnavailable},
		{ErrCodeNotificationSendFailed, http.StatusBadGateway},
		{ErrCodeQueryExecutionFailed, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	notFound := NewNotFoundError("suppliers", "42")
	wrapped := fmt.Errorf("loading supplier: %w", notFound)
	assert.Same(t, notFound, Normalize(wrapped))

	plain := Normalize(stderrors.New("disk on fire"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "disk on fire", plain.Details)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("import: %w", NewRowParseError(3, "unknown status"))
	assert.True(t, HasCode(err, ErrCodeRowParseError))
	assert.False(t, HasCode(err, ErrCodeParseError))
	assert.False(t, HasCode(stderrors.New("x"), ErrCodeRowParseError))
}

func TestRowParseError_Metadata(t *testing.T) {
	err := NewRowParseError(7, "status \"Maybe\" is not allowed")
	assert.Equal(t, 7, err.Metadata["rowIndex"])
	assert.Contains(t, err.Error(), "ROW_PARSE_ERROR")
	assert.Contains(t, err.Error(), "Maybe")
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeRowParseError, "SPREADSHEET"},
		{ErrCodeTemplateNotFound, "TEMPLATE"},
		{ErrCodeQueryExecutionFailed, "DATABASE"},
		{ErrCodeSearchQueryFailed, "SEARCH"},
		{ErrCodeNotFound, "REQUEST"},
		{ErrCodeNotificationDisabled, "NOTIFICATION"},
		{ErrCodeInternal, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestResponder_Respond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantWarn   bool
	}{
		{"not found", NewNotFoundError("tours", "t1"), http.StatusNotFound, "NOT_FOUND", true},
		{"validation", NewValidationError("name: required"), http.StatusBadRequest, "VALIDATION_FAILED", true},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			responder := NewResponder(log)

			router := gin.New()
			router.GET("/x", func(c *gin.Context) { responder.Respond(c, tt.err) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Error StandardError `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, ErrorCode(tt.wantCode), body.Error.Code)

			if tt.wantWarn {
				assert.Len(t, log.warns, 1)
				assert.Empty(t, log.errors)
			} else {
				assert.Len(t, log.errors, 1)
			}
		})
	}
}
