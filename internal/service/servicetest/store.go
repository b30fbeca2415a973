// Package servicetest provides an in-memory implementation of the service
// store interfaces for tests.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrStoreDown is returned by writes the Store was told to fail.
var ErrStoreDown = errors.New("store unavailable")

// Store keeps every entity in memory. Lookups of missing rows return
// pgx.ErrNoRows like the repositories do. Exported fields may be seeded
// directly before the store is shared with services.
type Store struct {
	mu sync.Mutex

	Modules     []model.Module
	Assignments []model.Assignment
	Submissions []model.Submission
	Quizzes     []model.QuizWithQuestions
	Attempts    []model.QuizAttempt
	Answers     []model.QuizAnswer
	Progress    map[[2]uuid.UUID]model.ModuleProgress

	FinalQuiz     *model.FinalQuizWithQuestions
	FinalAttempts []model.QuizAttempt

	FailAttemptInsert  bool
	FailAnswerInsert   bool
	FailProgressUpsert bool
	FailFinalInsert    bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{Progress: make(map[[2]uuid.UUID]model.ModuleProgress)}
}

func (m *Store) ListPublishedModules(ctx context.Context) ([]model.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Module
	for _, mod := range m.Modules {
		if mod.IsPublished {
			out = append(out, mod)
		}
	}
	return out, nil
}

func (m *Store) ListAssignments(ctx context.Context) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Assignment(nil), m.Assignments...), nil
}

func (m *Store) GetAssignment(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Assignments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *Store) ListSubmissionsByUser(ctx context.Context, userID uuid.UUID) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Submission
	for _, s := range m.Submissions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Store) ListSubmissionsByStatus(ctx context.Context, status *model.SubmissionStatus) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Submission
	for _, s := range m.Submissions {
		if status == nil || s.Status == *status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Store) GetSubmission(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Submissions {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *Store) SaveSubmission(ctx context.Context, s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for i, cur := range m.Submissions {
		if cur.AssignmentID == s.AssignmentID && cur.UserID == s.UserID {
			s.ID = cur.ID
			s.CreatedAt = cur.CreatedAt
			s.UpdatedAt = now
			m.Submissions[i] = *s
			return nil
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = now
	s.UpdatedAt = now
	m.Submissions = append(m.Submissions, *s)
	return nil
}

func (m *Store) GradeSubmission(ctx context.Context, s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.Submissions {
		if cur.ID == s.ID {
			s.UpdatedAt = time.Now()
			m.Submissions[i] = *s
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *Store) ListQuizzes(ctx context.Context) ([]model.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Quiz, 0, len(m.Quizzes))
	for _, q := range m.Quizzes {
		out = append(out, q.Quiz)
	}
	return out, nil
}

func (m *Store) GetQuizWithQuestions(ctx context.Context, id uuid.UUID) (*model.QuizWithQuestions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.Quizzes {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *Store) InsertQuizAttempt(ctx context.Context, a *model.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAttemptInsert {
		return ErrStoreDown
	}
	a.ID = uuid.New()
	a.CreatedAt = a.CompletedAt
	m.Attempts = append(m.Attempts, *a)
	return nil
}

func (m *Store) ListAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.QuizAttempt
	for _, a := range m.Attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (m *Store) InsertQuizAnswers(ctx context.Context, answers []model.QuizAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAnswerInsert {
		return ErrStoreDown
	}
	m.Answers = append(m.Answers, answers...)
	return nil
}

func (m *Store) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]model.ModuleProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ModuleProgress
	for k, p := range m.Progress {
		if k[0] == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Store) UpsertModuleProgress(ctx context.Context, userID, moduleID uuid.UUID, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailProgressUpsert {
		return ErrStoreDown
	}
	key := [2]uuid.UUID{userID, moduleID}
	p, ok := m.Progress[key]
	if !ok {
		p = model.ModuleProgress{ID: uuid.New(), UserID: userID, ModuleID: moduleID, CreatedAt: completedAt}
	}
	p.IsUnlocked = true
	at := completedAt
	p.CompletedAt = &at
	m.Progress[key] = p
	return nil
}

func (m *Store) GetActiveFinalQuiz(ctx context.Context) (*model.FinalQuizWithQuestions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FinalQuiz == nil || !m.FinalQuiz.IsActive {
		return nil, pgx.ErrNoRows
	}
	q := *m.FinalQuiz
	return &q, nil
}

func (m *Store) InsertFinalQuizAttempt(ctx context.Context, a *model.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFinalInsert {
		return ErrStoreDown
	}
	a.ID = uuid.New()
	a.CreatedAt = a.CompletedAt
	m.FinalAttempts = append(m.FinalAttempts, *a)
	return nil
}

func (m *Store) ListFinalQuizAttemptsByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.QuizAttempt
	for _, a := range m.FinalAttempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

// AddModule adds a published module.
func (m *Store) AddModule(order int) model.Module {
	mod := model.Module{ID: uuid.New(), Title: "Módulo", OrderIndex: order, IsPublished: true}
	m.Modules = append(m.Modules, mod)
	return mod
}

// AddAssignment adds an assignment worth 100 points to the module.
func (m *Store) AddAssignment(moduleID uuid.UUID) model.Assignment {
	a := model.Assignment{ID: uuid.New(), LessonID: uuid.New(), ModuleID: moduleID, Title: "Entrega", MaxScore: 100}
	m.Assignments = append(m.Assignments, a)
	return a
}

// AddQuiz adds a quiz with ten one-point questions, each with a correct and a
// wrong option, and returns its answer key.
func (m *Store) AddQuiz(moduleID uuid.UUID, passing int) *QuizKey {
	k := newQuizKey(moduleID, passing)
	m.Quizzes = append(m.Quizzes, *k.Quiz)
	return k
}

// AddFinalQuiz activates a final quiz shaped like AddQuiz's and returns its
// answer key.
func (m *Store) AddFinalQuiz(passing int) *QuizKey {
	k := newQuizKey(uuid.Nil, passing)
	m.FinalQuiz = &model.FinalQuizWithQuestions{
		FinalQuiz: model.FinalQuiz{ID: k.Quiz.ID, Title: "Quiz final", PassingScore: passing, IsActive: true},
		Questions: k.Quiz.Questions,
	}
	return k
}

func newQuizKey(moduleID uuid.UUID, passing int) *QuizKey {
	q := &model.QuizWithQuestions{
		Quiz: model.Quiz{ID: uuid.New(), ModuleID: moduleID, Title: "Quiz", PassingScore: passing},
	}
	k := &QuizKey{Quiz: q}
	for i := 0; i < 10; i++ {
		qid := uuid.New()
		right, wrong := uuid.New(), uuid.New()
		q.Questions = append(q.Questions, model.QuizQuestion{
			ID:         qid,
			QuizID:     q.ID,
			OrderIndex: i + 1,
			Points:     1,
			Options: []model.QuizOption{
				{ID: right, QuestionID: qid, IsCorrect: true, OrderIndex: 1},
				{ID: wrong, QuestionID: qid, OrderIndex: 2},
			},
		})
		k.right = append(k.right, right)
		k.wrong = append(k.wrong, wrong)
	}
	return k
}

// QuizKey holds a quiz and the correct and wrong option of each question.
type QuizKey struct {
	Quiz  *model.QuizWithQuestions
	right []uuid.UUID
	wrong []uuid.UUID
}

// Answers returns a submission with the first n questions answered correctly
// and the rest wrong.
func (k *QuizKey) Answers(n int) map[uuid.UUID]uuid.UUID {
	out := make(map[uuid.UUID]uuid.UUID, len(k.Quiz.Questions))
	for i, q := range k.Quiz.Questions {
		if i < n {
			out[q.ID] = k.right[i]
		} else {
			out[q.ID] = k.wrong[i]
		}
	}
	return out
}
