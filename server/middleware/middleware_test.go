package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance/lightrag"
	apperrors "compliance/server/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(GinRequestIDMiddleware(), GinLoggerMiddleware(nil), GinRecoveryMiddleware(nil), GinErrorMiddleware(nil))
	return r
}

func TestRequestID_Generated(t *testing.T) {
	r := newRouter()
	var fromCtx, fromGin string
	r.GET("/", func(c *gin.Context) {
		fromCtx = lightrag.RequestIDFromContext(c.Request.Context())
		fromGin = GetRequestIDFromGin(c)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	header := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
	assert.Equal(t, header, fromCtx)
	assert.Equal(t, header, fromGin)
}

func TestRequestID_FromHeader(t *testing.T) {
	r := newRouter()
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, "given-id", GetRequestID(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "given-id", w.Header().Get(RequestIDHeader))
}

func TestRecovery_ReturnsGenericError(t *testing.T) {
	r := newRouter()
	r.GET("/panic", func(c *gin.Context) {
		panic("secret detail")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.InternalMessage, body.Error)
	assert.NotContains(t, w.Body.String(), "secret detail")
	assert.NotEmpty(t, body.RequestID)
	assert.NotEmpty(t, body.Timestamp)
}

func TestErrorMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"app error", apperrors.NewNotFoundError("result not found", nil), http.StatusNotFound, "result not found"},
		{"bad gateway", apperrors.NewBadGatewayError("knowledge base unavailable", errors.New("dial")), http.StatusBadGateway, "knowledge base unavailable"},
		{"plain error", errors.New("db exploded"), http.StatusInternalServerError, apperrors.InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter()
			r.GET("/", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.code, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, w.Header().Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestErrorMiddleware_KeepsWrittenResponse(t *testing.T) {
	r := newRouter()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}
