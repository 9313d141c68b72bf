package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"rebook/internal/apperrors"
)

func TestRecordOperationLabelsByCode(t *testing.T) {
	before := testutil.ToFloat64(operations.WithLabelValues("cart.add", "DUPLICATE_CART_ENTRY"))

	RecordOperation("cart.add", fmt.Errorf("add: %w", apperrors.ErrDuplicateCartEntry))
	RecordOperation("cart.add", nil)

	require.Equal(t, before+1, testutil.ToFloat64(operations.WithLabelValues("cart.add", "DUPLICATE_CART_ENTRY")))
	require.GreaterOrEqual(t, testutil.ToFloat64(operations.WithLabelValues("cart.add", "ok")), 1.0)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/books/:id", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "rebook_http_requests_total"))
}
