package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cursoteca/lms-backend/internal/middleware"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/service"
	"github.com/cursoteca/lms-backend/internal/service/servicetest"
	"github.com/cursoteca/lms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var nopLog = zerolog.New(io.Discard)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
	Pagination *struct {
		Page       int `json:"page"`
		TotalItems int `json:"total_items"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

type stubChecker struct{ err error }

func (s stubChecker) Check(context.Context) error { return s.err }

// testServer wires the handlers against an in-memory store. The user id is
// taken from the X-User header in place of a verified token.
type testServer struct {
	store  *servicetest.Store
	engine *gin.Engine
	user   uuid.UUID
}

func newTestServer(checker HealthChecker) *testServer {
	st := servicetest.NewStore()
	progress := service.NewProgressService(st, st, st, st, st, st, nopLog)
	recorder := service.NewAttemptRecorder(st, st, st, nopLog)
	quizzes := service.NewQuizService(progress, st, recorder, nopLog)
	subs := service.NewSubmissionService(st, st, progress, nopLog)
	final := service.NewFinalQuizService(progress, st, nopLog)

	ph := NewProgressHandler(progress, nopLog)
	qh := NewQuizHandler(quizzes, storeRefresher{st}, nopLog)
	sh := NewSubmissionHandler(subs, nopLog)
	fh := NewFinalQuizHandler(final, nopLog)
	sys := NewSystemHandler(checker, nil, nopLog)

	r := gin.New()
	r.GET("/health", sys.Health)

	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-User")); err == nil {
			c.Set(middleware.ContextKeyUserID, id)
		}
		c.Next()
	})
	api.GET("/student/modules", ph.ListModules)
	api.GET("/student/modules/:module_id", ph.GetModule)
	api.GET("/student/dashboard", ph.GetDashboard)
	api.GET("/student/grades", ph.GetGrades)
	api.GET("/student/final-quiz", fh.GetPaper)
	api.GET("/student/final-quiz/status", fh.GetStatus)
	api.POST("/student/final-quiz/attempts", fh.SubmitAttempt)
	api.GET("/student/quizzes/:quiz_id", qh.GetPaper)
	api.GET("/student/quizzes/:quiz_id/status", qh.GetStatus)
	api.POST("/student/quizzes/:quiz_id/attempts", qh.SubmitAttempt)
	api.POST("/student/assignments/:assignment_id/submissions", sh.Submit)
	api.GET("/admin/submissions", sh.ListSubmissions)
	api.PUT("/admin/submissions/:submission_id/grade", sh.Grade)
	api.POST("/admin/quizzes/:quiz_id/cache/refresh", qh.RefreshCache)

	return &testServer{store: st, engine: r, user: uuid.New()}
}

type storeRefresher struct{ st *servicetest.Store }

func (r storeRefresher) Refresh(ctx context.Context, id uuid.UUID) (*model.QuizWithQuestions, error) {
	return r.st.GetQuizWithQuestions(ctx, id)
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", s.user.String())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
	}
	return w, env
}

func errCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

func TestListModulesReportsLockChain(t *testing.T) {
	s := newTestServer(stubChecker{})
	first := s.store.AddModule(1)
	second := s.store.AddModule(2)
	s.store.AddAssignment(first.ID)

	w, env := s.do(t, http.MethodGet, "/api/v1/student/modules", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var data struct {
		Modules []struct {
			ID         uuid.UUID `json:"id"`
			IsUnlocked bool      `json:"is_unlocked"`
		} `json:"modules"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Modules) != 2 {
		t.Fatalf("modules = %d, want 2", len(data.Modules))
	}
	if data.Modules[0].ID != first.ID || !data.Modules[0].IsUnlocked {
		t.Errorf("first module should be unlocked: %+v", data.Modules[0])
	}
	if data.Modules[1].ID != second.ID || data.Modules[1].IsUnlocked {
		t.Errorf("second module should be locked: %+v", data.Modules[1])
	}
}

func TestListModulesEmptyCourse(t *testing.T) {
	s := newTestServer(stubChecker{})

	_, env := s.do(t, http.MethodGet, "/api/v1/student/modules", nil)
	if string(env.Data) != `{"modules":[]}` {
		t.Errorf("data = %s", env.Data)
	}
}

func TestRequestWithoutUser(t *testing.T) {
	s := newTestServer(stubChecker{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/dashboard", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestGetModuleErrors(t *testing.T) {
	s := newTestServer(stubChecker{})
	s.store.AddModule(1)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/v1/student/modules/not-a-uuid", http.StatusBadRequest, "INVALID_ID"},
		{"/api/v1/student/modules/" + uuid.NewString(), http.StatusNotFound, "MODULE_NOT_FOUND"},
	}
	for _, tt := range tests {
		w, env := s.do(t, http.MethodGet, tt.path, nil)
		if w.Code != tt.status || errCode(env) != tt.code {
			t.Errorf("%s: got %d %q, want %d %q", tt.path, w.Code, errCode(env), tt.status, tt.code)
		}
	}
}

func TestQuizPaperGates(t *testing.T) {
	s := newTestServer(stubChecker{})
	first := s.store.AddModule(1)
	second := s.store.AddModule(2)
	s.store.AddAssignment(first.ID)
	pending := s.store.AddQuiz(first.ID, 70)
	locked := s.store.AddQuiz(second.ID, 70)

	tests := []struct {
		name   string
		quizID uuid.UUID
		status int
		code   string
	}{
		{"assignments pending", pending.Quiz.ID, http.StatusForbidden, "ASSIGNMENTS_PENDING"},
		{"module locked", locked.Quiz.ID, http.StatusForbidden, "MODULE_LOCKED"},
		{"unknown quiz", uuid.New(), http.StatusNotFound, "QUIZ_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodGet, "/api/v1/student/quizzes/"+tt.quizID.String(), nil)
			if w.Code != tt.status || errCode(env) != tt.code {
				t.Errorf("got %d %q, want %d %q", w.Code, errCode(env), tt.status, tt.code)
			}
		})
	}
}

func TestQuizPaperHidesAnswerKey(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	k := s.store.AddQuiz(mod.ID, 70)

	w, env := s.do(t, http.MethodGet, "/api/v1/student/quizzes/"+k.Quiz.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if bytes.Contains(env.Data, []byte("is_correct")) {
		t.Errorf("paper leaks the answer key: %s", env.Data)
	}
}

func TestSubmitAttemptThenCooldown(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	k := s.store.AddQuiz(mod.ID, 70)
	path := "/api/v1/student/quizzes/" + k.Quiz.ID.String() + "/attempts"

	w, env := s.do(t, http.MethodPost, path, model.SubmitQuizRequest{Answers: k.Answers(5)})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	var outcome struct {
		Attempt struct {
			Passed bool `json:"passed"`
		} `json:"attempt"`
		DisplayPercentage int `json:"display_percentage"`
	}
	if err := json.Unmarshal(env.Data, &outcome); err != nil {
		t.Fatal(err)
	}
	if outcome.Attempt.Passed || outcome.DisplayPercentage != 50 {
		t.Errorf("outcome = %+v, want failed at 50%%", outcome)
	}

	w, env = s.do(t, http.MethodPost, path, model.SubmitQuizRequest{Answers: k.Answers(10)})
	if w.Code != http.StatusTooManyRequests || errCode(env) != "QUIZ_COOLDOWN" {
		t.Fatalf("retry got %d %q, want 429 QUIZ_COOLDOWN", w.Code, errCode(env))
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	var blocked struct {
		Cooldown struct {
			Active    bool `json:"active"`
			HoursLeft int  `json:"hours_left"`
		} `json:"cooldown"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(env.Data, &blocked); err != nil {
		t.Fatal(err)
	}
	if !blocked.Cooldown.Active || blocked.Cooldown.HoursLeft != 6 || blocked.Label != "6h" {
		t.Errorf("cooldown = %+v", blocked)
	}
	if len(s.store.Attempts) != 1 {
		t.Errorf("attempts = %d, want 1", len(s.store.Attempts))
	}
}

func TestSubmitAttemptValidation(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	k := s.store.AddQuiz(mod.ID, 70)

	w, env := s.do(t, http.MethodPost, "/api/v1/student/quizzes/"+k.Quiz.ID.String()+"/attempts", map[string]any{})
	if w.Code != http.StatusBadRequest || errCode(env) != "VALIDATION_ERROR" {
		t.Errorf("got %d %q, want 400 VALIDATION_ERROR", w.Code, errCode(env))
	}
}

func TestSubmitAndGradeAssignment(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	a := s.store.AddAssignment(mod.ID)
	k := s.store.AddQuiz(mod.ID, 70)

	w, env := s.do(t, http.MethodPost, "/api/v1/student/assignments/"+a.ID.String()+"/submissions", map[string]string{
		"link_url":  "https://github.com/alumno/proyecto",
		"link_type": "github",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %d (%s)", w.Code, w.Body.String())
	}
	var created struct {
		Submission model.Submission `json:"submission"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	gradePath := "/api/v1/admin/submissions/" + created.Submission.ID.String() + "/grade"

	w, env = s.do(t, http.MethodPut, gradePath, map[string]any{"score": 150, "is_approved": true})
	if w.Code != http.StatusUnprocessableEntity || errCode(env) != "SCORE_EXCEEDS_MAX" {
		t.Fatalf("over max got %d %q", w.Code, errCode(env))
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/student/quizzes/"+k.Quiz.ID.String()+"/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", w.Code)
	}

	w, _ = s.do(t, http.MethodPut, gradePath, map[string]any{"score": 90, "is_approved": true, "feedback": "Bien"})
	if w.Code != http.StatusOK {
		t.Fatalf("grade status = %d (%s)", w.Code, w.Body.String())
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/student/quizzes/"+k.Quiz.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Errorf("paper after approval = %d, want 200", w.Code)
	}
}

func TestSubmitAssignmentValidation(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	a := s.store.AddAssignment(mod.ID)

	w, env := s.do(t, http.MethodPost, "/api/v1/student/assignments/"+a.ID.String()+"/submissions", map[string]string{
		"link_url":  "no es una url",
		"link_type": "dropbox",
	})
	if w.Code != http.StatusBadRequest || errCode(env) != "VALIDATION_ERROR" {
		t.Fatalf("got %d %q", w.Code, errCode(env))
	}
	for _, field := range []string{"link_url", "link_type"} {
		if _, ok := env.Error.Fields[field]; !ok {
			t.Errorf("missing field error for %s: %v", field, env.Error.Fields)
		}
	}
}

func TestListSubmissionsPaginates(t *testing.T) {
	s := newTestServer(stubChecker{})
	for i := 0; i < 3; i++ {
		s.store.Submissions = append(s.store.Submissions, model.Submission{
			ID:           uuid.New(),
			AssignmentID: uuid.New(),
			UserID:       uuid.New(),
			Status:       model.SubmissionStatusSubmitted,
		})
	}

	w, env := s.do(t, http.MethodGet, "/api/v1/admin/submissions?status=submitted&page=2&per_page=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	var data struct {
		Submissions []model.Submission `json:"submissions"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Submissions) != 1 {
		t.Errorf("page 2 holds %d submissions, want 1", len(data.Submissions))
	}
	if env.Pagination == nil || env.Pagination.TotalItems != 3 || env.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v", env.Pagination)
	}

	w, env = s.do(t, http.MethodGet, "/api/v1/admin/submissions?status=lost", nil)
	if w.Code != http.StatusBadRequest || errCode(env) != "VALIDATION_ERROR" {
		t.Errorf("bad status filter got %d %q", w.Code, errCode(env))
	}
}

type finalQuizStatusBody struct {
	Status        service.FinalQuizAccess `json:"status"`
	CooldownLabel string                  `json:"cooldown_label"`
}

func TestFinalQuizStatus(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	k := s.store.AddQuiz(mod.ID, 70)

	_, env := s.do(t, http.MethodGet, "/api/v1/student/final-quiz/status", nil)
	var body finalQuizStatusBody
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Status.Unlocked || body.Status.Available {
		t.Fatalf("final quiz = %+v, want locked and not configured", body.Status)
	}

	s.do(t, http.MethodPost, "/api/v1/student/quizzes/"+k.Quiz.ID.String()+"/attempts", model.SubmitQuizRequest{Answers: k.Answers(10)})
	final := s.store.AddFinalQuiz(70)

	_, env = s.do(t, http.MethodGet, "/api/v1/student/final-quiz/status", nil)
	body = finalQuizStatusBody{}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatal(err)
	}
	st := body.Status
	if !st.Unlocked || st.CompletedModules != 1 || st.TotalModules != 1 {
		t.Errorf("final quiz = %+v", st)
	}
	if !st.Available || st.QuizID == nil || *st.QuizID != final.Quiz.ID || !st.CanAttempt {
		t.Errorf("final quiz = %+v, want the active quiz open", st)
	}
}

func TestFinalQuizRoutes(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	k := s.store.AddQuiz(mod.ID, 70)

	w, env := s.do(t, http.MethodGet, "/api/v1/student/final-quiz", nil)
	if w.Code != http.StatusForbidden || errCode(env) != "FINAL_QUIZ_LOCKED" {
		t.Fatalf("locked paper got %d %q", w.Code, errCode(env))
	}

	s.do(t, http.MethodPost, "/api/v1/student/quizzes/"+k.Quiz.ID.String()+"/attempts", model.SubmitQuizRequest{Answers: k.Answers(10)})

	w, env = s.do(t, http.MethodGet, "/api/v1/student/final-quiz", nil)
	if w.Code != http.StatusNotFound || errCode(env) != "FINAL_QUIZ_NOT_FOUND" {
		t.Fatalf("unconfigured paper got %d %q", w.Code, errCode(env))
	}

	final := s.store.AddFinalQuiz(70)
	w, env = s.do(t, http.MethodGet, "/api/v1/student/final-quiz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("paper status = %d", w.Code)
	}
	if bytes.Contains(env.Data, []byte("is_correct")) {
		t.Error("final quiz paper leaks the answer key")
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/student/final-quiz/attempts", map[string]any{})
	if w.Code != http.StatusBadRequest || errCode(env) != "VALIDATION_ERROR" {
		t.Errorf("empty submission got %d %q", w.Code, errCode(env))
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/student/final-quiz/attempts", model.SubmitQuizRequest{Answers: final.Answers(6)})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", w.Code)
	}
	var out service.AttemptOutcome
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Attempt.Passed || out.Attempt.QuizID != final.Quiz.ID {
		t.Errorf("attempt = %+v, want a failed final quiz attempt", out.Attempt)
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/student/final-quiz/attempts", model.SubmitQuizRequest{Answers: final.Answers(10)})
	if w.Code != http.StatusTooManyRequests || errCode(env) != "QUIZ_COOLDOWN" {
		t.Fatalf("retry got %d %q, want 429 QUIZ_COOLDOWN", w.Code, errCode(env))
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if len(s.store.FinalAttempts) != 1 {
		t.Errorf("final attempts = %d, want 1", len(s.store.FinalAttempts))
	}
}

func TestRefreshCache(t *testing.T) {
	s := newTestServer(stubChecker{})
	mod := s.store.AddModule(1)
	k := s.store.AddQuiz(mod.ID, 70)

	w, env := s.do(t, http.MethodPost, "/api/v1/admin/quizzes/"+k.Quiz.ID.String()+"/cache/refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var data struct {
		QuestionCount int `json:"question_count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.QuestionCount != 10 {
		t.Errorf("question_count = %d, want 10", data.QuestionCount)
	}

	w, env = s.do(t, http.MethodPost, "/api/v1/admin/quizzes/"+uuid.NewString()+"/cache/refresh", nil)
	if w.Code != http.StatusNotFound || errCode(env) != "QUIZ_NOT_FOUND" {
		t.Errorf("unknown quiz got %d %q", w.Code, errCode(env))
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"up", nil, http.StatusOK},
		{"down", errors.New("postgres: connection refused"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(stubChecker{err: tt.err})
			w, _ := s.do(t, http.MethodGet, "/health", nil)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(90 * time.Minute); got != "1h 30m 0s" {
		t.Errorf("formatDuration = %q", got)
	}
}
