package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/cursoteca/lms-backend/internal/config"
	"github.com/cursoteca/lms-backend/internal/database"
	"github.com/cursoteca/lms-backend/internal/logger"
	"github.com/cursoteca/lms-backend/internal/model"
	"github.com/cursoteca/lms-backend/internal/repository"
)

var moduleTitles = []string{
	"Fundamentos de HTML y CSS",
	"JavaScript moderno",
	"React desde cero",
	"APIs con Node.js",
	"Despliegue y buenas prácticas",
}

func main() {
	var modules int
	var force, skipFinal bool
	flag.IntVar(&modules, "modules", 3, "Number of modules to create (max 5)")
	flag.BoolVar(&force, "force", false, "Seed even when published modules already exist")
	flag.BoolVar(&skipFinal, "skip-final-quiz", false, "Do not create and activate a final quiz")
	flag.Parse()

	if modules < 1 || modules > len(moduleTitles) {
		fmt.Printf("Error: -modules must be between 1 and %d\n", len(moduleTitles))
		return
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	moduleRepo := repository.NewModuleRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	finalQuizRepo := repository.NewFinalQuizRepository(pool)

	existing, err := moduleRepo.ListPublishedModules(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list modules")
	}
	if len(existing) > 0 && !force {
		fmt.Printf("Course already has %d published modules. Use -force to seed anyway.\n", len(existing))
		return
	}
	offset := len(existing)

	fmt.Printf("=== Seeding %d Modules ===\n", modules)

	for i := 0; i < modules; i++ {
		m := &model.Module{
			Title:       moduleTitles[i],
			OrderIndex:  offset + i + 1,
			IsPublished: true,
		}
		if err := moduleRepo.Create(ctx, m); err != nil {
			log.Fatal().Err(err).Str("title", m.Title).Msg("Failed to create module")
		}

		var last *model.Lesson
		for j := 1; j <= 2; j++ {
			l := &model.Lesson{ModuleID: m.ID, Title: fmt.Sprintf("Lección %d", j), OrderIndex: j}
			if err := moduleRepo.CreateLesson(ctx, l); err != nil {
				log.Fatal().Err(err).Msg("Failed to create lesson")
			}
			last = l
		}

		a := &model.Assignment{LessonID: last.ID, Title: "Proyecto: " + m.Title, MaxScore: 100}
		if err := assignmentRepo.Create(ctx, a); err != nil {
			log.Fatal().Err(err).Msg("Failed to create assignment")
		}

		q := sampleQuiz(m)
		if err := quizRepo.Create(ctx, q); err != nil {
			log.Fatal().Err(err).Msg("Failed to create quiz")
		}

		fmt.Printf("Created module %d %q (assignment %s, quiz %s)\n", m.OrderIndex, m.Title, a.ID, q.ID)
	}

	if !skipFinal {
		fq := sampleFinalQuiz()
		if err := finalQuizRepo.Create(ctx, fq); err != nil {
			log.Fatal().Err(err).Msg("Failed to create final quiz")
		}
		fmt.Printf("Created active final quiz %s (%d questions)\n", fq.ID, len(fq.Questions))
	}

	fmt.Println("\nSeed completed!")
}

// sampleQuiz builds a five-question quiz with four options each; the first
// option is the correct one.
func sampleQuiz(m *model.Module) *model.QuizWithQuestions {
	limit := 20
	q := &model.QuizWithQuestions{
		Quiz: model.Quiz{
			ModuleID:         m.ID,
			Title:            "Evaluación: " + m.Title,
			PassingScore:     70,
			TimeLimitMinutes: &limit,
		},
	}
	for i := 1; i <= 5; i++ {
		qq := model.QuizQuestion{
			QuestionText: fmt.Sprintf("Pregunta %d sobre %s", i, m.Title),
			OrderIndex:   i,
			Points:       2,
		}
		for j := 1; j <= 4; j++ {
			qq.Options = append(qq.Options, model.QuizOption{
				OptionText: fmt.Sprintf("Opción %c", 'A'+j-1),
				IsCorrect:  j == 1,
				OrderIndex: j,
			})
		}
		q.Questions = append(q.Questions, qq)
	}
	return q
}

// sampleFinalQuiz builds an active ten-question final quiz worth one point per
// question.
func sampleFinalQuiz() *model.FinalQuizWithQuestions {
	limit := 90
	q := &model.FinalQuizWithQuestions{
		FinalQuiz: model.FinalQuiz{
			Title:            "Quiz Final",
			PassingScore:     70,
			TimeLimitMinutes: &limit,
			IsActive:         true,
		},
	}
	for i := 1; i <= 10; i++ {
		qq := model.QuizQuestion{
			QuestionText: fmt.Sprintf("Pregunta final %d", i),
			OrderIndex:   i,
			Points:       1,
		}
		for j := 1; j <= 4; j++ {
			qq.Options = append(qq.Options, model.QuizOption{
				OptionText: fmt.Sprintf("Opción %c", 'A'+j-1),
				IsCorrect:  j == 1,
				OrderIndex: j,
			})
		}
		q.Questions = append(q.Questions, qq)
	}
	return q
}
