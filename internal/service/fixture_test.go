package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lshigami/Quizdesk/database"
	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/clock"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/lshigami/Quizdesk/internal/repository"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

var testStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	db    *gorm.DB
	clock *clock.Manual

	users       repository.UserRepository
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository

	quizzes     QuizService
	questions   QuestionService
	choices     ChoiceService
	assignments AssignmentService
	attempts    *attemptService
	reports     ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	db, err := database.OpenSQLite(dsn, gormlogger.Discard)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	clk := clock.NewManual(testStart)
	users := repository.NewUserRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	choiceRepo := repository.NewChoiceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	answerRepo := repository.NewAnswerRepository(db)

	return &fixture{
		ctx:         context.Background(),
		db:          db,
		clock:       clk,
		users:       users,
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		quizzes:     NewQuizService(quizRepo, assignmentRepo),
		questions:   NewQuestionService(questionRepo, quizRepo, assignmentRepo),
		choices:     NewChoiceService(choiceRepo, questionRepo, quizRepo),
		assignments: NewAssignmentService(assignmentRepo, quizRepo, users, clk, db),
		attempts: NewAttemptService(attemptRepo, answerRepo, quizRepo, questionRepo, choiceRepo,
			assignmentRepo, NewScoringEngine(), clk, db).(*attemptService),
		reports: NewReportService(attemptRepo, answerRepo, quizRepo, questionRepo, clk),
	}
}

func (f *fixture) user(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "unused", Role: role}
	if err := f.users.Create(f.ctx, u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (f *fixture) teacher(t *testing.T, username string) auth.Teacher {
	return auth.Teacher{ID: f.user(t, username, model.RoleTeacher).ID}
}

func (f *fixture) student(t *testing.T, username string) auth.Student {
	return auth.Student{ID: f.user(t, username, model.RoleStudent).ID}
}

// sampleQuizRequest is worth four points: a 2-point mcq, a tf and a 1-point mcq.
func sampleQuizRequest(limit *int) dto.CreateQuizRequest {
	return dto.CreateQuizRequest{
		Title:            "Cells",
		TimeLimitSeconds: limit,
		Questions: []dto.QuestionInput{
			{Text: "Powerhouse of the cell?", Type: model.QuestionMCQ, Points: 2, Order: 1, Choices: []dto.ChoiceInput{
				{Text: "Mitochondria", IsCorrect: true, Order: 1},
				{Text: "Ribosome", Order: 2},
			}},
			{Text: "Plants have cell walls.", Type: model.QuestionTF, Order: 2, Choices: []dto.ChoiceInput{
				{Text: "True", IsCorrect: true, Order: 1},
				{Text: "False", Order: 2},
			}},
			{Text: "Which organelle holds DNA?", Type: model.QuestionMCQ, Order: 3, Choices: []dto.ChoiceInput{
				{Text: "Nucleus", IsCorrect: true, Order: 1},
				{Text: "Vacuole", Order: 2},
			}},
		},
	}
}

func (f *fixture) quiz(t *testing.T, teacher auth.Teacher, req dto.CreateQuizRequest) *dto.QuizResponse {
	t.Helper()
	q, err := f.quizzes.Create(f.ctx, teacher, req)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return q
}

func (f *fixture) assign(t *testing.T, teacher auth.Teacher, quizID uint, students ...auth.Student) []uint {
	t.Helper()
	raw := "["
	for i, s := range students {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprint(s.ID)
	}
	raw += "]"
	resp, err := f.assignments.Assign(f.ctx, teacher, quizID, dto.AssignRequest{Students: []byte(raw)})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	return resp.CreatedAssignments
}

func (f *fixture) start(t *testing.T, student auth.Student, quizID uint) *dto.AttemptResponse {
	t.Helper()
	a, err := f.attempts.Start(f.ctx, student, quizID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	return a
}

func (f *fixture) answer(t *testing.T, student auth.Student, attemptID, questionID, choiceID uint) *dto.AttemptAnswerResponse {
	t.Helper()
	a, err := f.attempts.SubmitAnswer(f.ctx, student, attemptID, dto.SubmitAnswerRequest{
		QuestionID:       &questionID,
		SelectedChoiceID: &choiceID,
	})
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	return a
}

// choiceID finds a choice on a teacher view of a question by its correctness.
func choiceID(t *testing.T, q dto.QuestionResponse, correct bool) uint {
	t.Helper()
	for _, c := range q.Choices {
		if c.IsCorrect == correct {
			return c.ID
		}
	}
	t.Fatalf("question %d has no choice with is_correct=%v", q.ID, correct)
	return 0
}

func wantKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %d, got nil", kind)
	}
	svcErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected service error of kind %d, got %v", kind, err)
	}
	if svcErr.Kind != kind {
		t.Fatalf("error kind = %d (%q), want %d", svcErr.Kind, svcErr.Message, kind)
	}
	return svcErr
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

func intPtr(v int) *int { return &v }
