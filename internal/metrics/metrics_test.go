package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	Init()

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", PrometheusHandler())
	return r
}

func scrape(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	return w.Body.String()
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()
}

func TestMiddlewareCountsRequests(t *testing.T) {
	r := newRouter()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	body := scrape(t, r)
	if !strings.Contains(body, `http_requests_total{endpoint="/ping",method="GET",status="204"}`) {
		t.Error("metrics output is missing the /ping request counter")
	}
}

func TestObserveAttemptAndCache(t *testing.T) {
	r := newRouter()
	ObserveAttempt(KindModuleQuiz, true)
	ObserveAttempt(KindFinalQuiz, false)
	ObserveCacheLookup(true)

	body := scrape(t, r)
	for _, want := range []string{
		`quiz_attempts_total{kind="module",result="passed"}`,
		`quiz_attempts_total{kind="final",result="failed"}`,
		`quiz_cache_lookups_total{result="hit"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output is missing %s", want)
		}
	}
}
