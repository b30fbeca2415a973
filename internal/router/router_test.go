package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/handler"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type okChecker struct{}

func (okChecker) Check(context.Context) error { return nil }

func newRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		GinMode:         gin.TestMode,
		JWTSecret:       "router-test-secret",
		JWTExpiry:       time.Hour,
		SubmitRateLimit: 10,
		MetricsEnabled:  true,
	}
	auth := service.NewAuthService(cfg)
	log := zerolog.New(io.Discard)
	handlers := &Handlers{
		Progress:   handler.NewProgressHandler(nil, log),
		Quiz:       handler.NewQuizHandler(nil, nil, log),
		Submission: handler.NewSubmissionHandler(nil, log),
		FinalQuiz:  handler.NewFinalQuizHandler(nil, log),
		System:     handler.NewSystemHandler(okChecker{}, nil, log),
	}
	return SetupRouter(ctx, auth, handlers, cfg), auth
}

func TestPublicRoutes(t *testing.T) {
	r, _ := newRouter(t)

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
	}
}

func TestStudentRoutesRequireToken(t *testing.T) {
	r, _ := newRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/student/modules"},
		{http.MethodGet, "/api/v1/student/final-quiz"},
		{http.MethodPost, "/api/v1/student/final-quiz/attempts"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", route.method, route.path, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s %s: X-Request-ID header missing", route.method, route.path)
		}
	}
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	r, auth := newRouter(t)
	token, err := auth.GenerateToken(uuid.New(), "alumno@cursoteca.dev", model.RoleStudent, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ADMIN_ACCESS_ONLY") {
		t.Errorf("body = %s", w.Body.String())
	}
}
