package service

import (
	"context"
	"fmt"

	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/clock"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/repository"
)

type ReportService interface {
	ReviewWrongAnswers(ctx context.Context, student auth.Student, attemptID uint) ([]dto.AttemptAnswerResponse, error)
	TeacherSummary(ctx context.Context, teacher auth.Teacher) ([]dto.QuizSummaryResponse, error)
	TeacherQuizAttempts(ctx context.Context, teacher auth.Teacher, quizID uint) ([]dto.AttemptResponse, error)
}

type reportService struct {
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	clock        clock.Clock
}

func NewReportService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	clk clock.Clock,
) ReportService {
	return &reportService{
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		clock:        clk,
	}
}

// ReviewWrongAnswers lists the answers marked incorrect, in question display order.
func (s *reportService) ReviewWrongAnswers(ctx context.Context, student auth.Student, attemptID uint) ([]dto.AttemptAnswerResponse, error) {
	attempt, err := s.attemptRepo.FindByIDForStudent(ctx, attemptID, student.ID)
	if err != nil {
		return nil, notFoundOr(err, "Attempt", "loading attempt")
	}
	wrong, err := s.answerRepo.FindWrongByAttemptID(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("loading wrong answers: %w", err)
	}
	questions, err := s.questionRepo.FindByQuizID(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	sortAnswersByQuestions(wrong, questions)
	return toAnswerResponses(wrong), nil
}

func (s *reportService) TeacherSummary(ctx context.Context, teacher auth.Teacher) ([]dto.QuizSummaryResponse, error) {
	rows, err := s.quizRepo.SummaryByCreator(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("summarizing quizzes: %w", err)
	}
	out := make([]dto.QuizSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.QuizSummaryResponse{QuizID: r.QuizID, Title: r.Title, Attempts: r.Attempts})
	}
	return out, nil
}

// TeacherQuizAttempts returns every attempt on a quiz the teacher owns, each
// with its answers in the question order the student saw. Another teacher's
// quiz is reported as not found.
func (s *reportService) TeacherQuizAttempts(ctx context.Context, teacher auth.Teacher, quizID uint) ([]dto.AttemptResponse, error) {
	quiz, err := s.quizRepo.FindOwned(ctx, quizID, teacher.ID)
	if err != nil {
		return nil, notFoundOr(err, "Quiz", "loading quiz")
	}
	attempts, err := s.attemptRepo.FindByQuizID(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}

	now := s.clock.Now()
	out := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		sortAnswersByQuestions(attempts[i].Answers, orderQuestions(quiz.Questions, attempts[i].QuestionOrder))
		out = append(out, toAttemptResponse(&attempts[i], now))
	}
	return out, nil
}
