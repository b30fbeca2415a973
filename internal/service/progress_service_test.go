package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/progression"
	"github.com/google/uuid"
)

func TestProgressServiceDashboard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m1 := f.store.AddModule(1)
	m2 := f.store.AddModule(2)
	hidden := model.Module{ID: uuid.New(), OrderIndex: 3}
	f.store.Modules = append(f.store.Modules, hidden)
	k := f.store.AddQuiz(m1.ID, 70)
	f.store.AddQuiz(m2.ID, 70)
	f.store.AddAssignment(m2.ID)

	if _, err := f.quizzes.Submit(ctx, f.user, k.Quiz.ID, &model.SubmitQuizRequest{Answers: k.Answers(8)}); err != nil {
		t.Fatal(err)
	}

	d, err := f.progress.Dashboard(ctx, f.user)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.Summary.TotalModules != 2 || d.Summary.CompletedModules != 1 {
		t.Errorf("summary = %+v", d.Summary)
	}
	if d.Summary.PendingAssignments != 1 || d.Summary.AverageScore != 80 {
		t.Errorf("summary = %+v", d.Summary)
	}
	if len(d.Modules) != 2 || d.Modules[0].ProgressPercent != 100 {
		t.Fatalf("modules = %+v", d.Modules)
	}
	if d.Modules[0].BestScore == nil || *d.Modules[0].BestScore != 80 {
		t.Errorf("best score = %v", d.Modules[0].BestScore)
	}

	if _, err := f.progress.Module(ctx, f.user, hidden.ID); !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("unpublished module err = %v, want ErrModuleNotFound", err)
	}

	final, err := f.progress.FinalQuiz(ctx, f.user)
	if err != nil {
		t.Fatal(err)
	}
	if final.Unlocked || final.CompletedModules != 1 || final.TotalModules != 2 {
		t.Errorf("final quiz = %+v", final)
	}
}

func TestProgressServiceGrades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.store.AddModule(1)
	k := f.store.AddQuiz(m.ID, 70)

	if _, err := f.quizzes.Submit(ctx, f.user, k.Quiz.ID, &model.SubmitQuizRequest{Answers: k.Answers(4)}); err != nil {
		t.Fatal(err)
	}
	g, err := f.progress.Grades(ctx, f.user)
	if err != nil {
		t.Fatal(err)
	}
	if g.TotalAttempts != 1 || g.PassedAttempts != 0 || g.AverageQuizScore != 40 {
		t.Errorf("grades = %+v", g)
	}

	other, err := f.progress.Grades(ctx, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if other.TotalAttempts != 0 {
		t.Error("grades must be scoped to the user")
	}
}

func TestQuizStatusReportsGate(t *testing.T) {
	f := newFixture()
	m := f.store.AddModule(1)
	f.store.AddAssignment(m.ID)
	k := f.store.AddQuiz(m.ID, 70)

	st, err := f.progress.QuizStatus(context.Background(), f.user, k.Quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.Gate != progression.QuizGateAssignmentsPending || st.CanAttempt || st.ModuleID != m.ID {
		t.Errorf("status = %+v", st)
	}
	if !errors.Is(st.Err(), ErrAssignmentsPending) {
		t.Errorf("Err() = %v", st.Err())
	}
}
