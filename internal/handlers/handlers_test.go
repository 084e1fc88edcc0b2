package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/freshmart/grocery-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := map[service.Kind]int{
		service.KindDuplicateIdentity:  http.StatusBadRequest,
		service.KindInvalidInput:       http.StatusBadRequest,
		service.KindInvalidCredentials: http.StatusUnauthorized,
		service.KindUnauthenticated:    http.StatusUnauthorized,
		service.KindAccountDisabled:    http.StatusForbidden,
		service.KindNotFound:           http.StatusNotFound,
		service.KindProductNotFound:    http.StatusNotFound,
		service.KindProductUnavailable: http.StatusBadRequest,
		service.KindInsufficientStock:  http.StatusBadRequest,
		service.KindInvalidState:       http.StatusBadRequest,
		service.Kind(0):                http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), kind.String())
	}
}

func TestRespondError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := &Handlers{Log: zap.New(core)}

	r := gin.New()
	r.GET("/business", func(c *gin.Context) {
		h.respondError(c, &service.Error{Kind: service.KindInvalidCredentials, Message: "Invalid username or password"})
	})
	r.GET("/unexpected", func(c *gin.Context) {
		h.respondError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/business", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"Invalid username or password"}`, rec.Body.String())
	assert.Zero(t, logs.Len())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unexpected", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.Len())
}

func TestParamID(t *testing.T) {
	r := gin.New()
	r.GET("/orders/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id", "order")
		if ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	for path, want := range map[string]int{
		"/orders/12":  http.StatusOK,
		"/orders/0":   http.StatusBadRequest,
		"/orders/-4":  http.StatusBadRequest,
		"/orders/abc": http.StatusBadRequest,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}
