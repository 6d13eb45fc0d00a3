package api_router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/ping", "204"))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
	}

	got := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/ping", "204"))
	if got-before != 3 {
		t.Errorf("counter delta = %v, want 3", got-before)
	}

	// Requests that matched no route still land in a bucket.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	unmatched := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "unmatched", "404"))
	if unmatched < 1 {
		t.Errorf("unmatched counter = %v, want at least 1", unmatched)
	}
}
