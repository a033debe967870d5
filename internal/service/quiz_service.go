package service

import (
	"context"
	"fmt"

	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/lshigami/Quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
)

type QuizService interface {
	Create(ctx context.Context, teacher auth.Teacher, req dto.CreateQuizRequest) (*dto.QuizResponse, error)
	Update(ctx context.Context, teacher auth.Teacher, quizID uint, req dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	Delete(ctx context.Context, teacher auth.Teacher, quizID uint) error
	ListForTeacher(ctx context.Context, teacher auth.Teacher) ([]dto.QuizResponse, error)
	GetForTeacher(ctx context.Context, teacher auth.Teacher, quizID uint) (*dto.QuizResponse, error)
	ListForStudent(ctx context.Context, student auth.Student) ([]dto.StudentQuizResponse, error)
	GetForStudent(ctx context.Context, student auth.Student, quizID uint) (*dto.StudentQuizResponse, error)
}

type quizService struct {
	quizRepo       repository.QuizRepository
	assignmentRepo repository.AssignmentRepository
}

func NewQuizService(quizRepo repository.QuizRepository, assignmentRepo repository.AssignmentRepository) QuizService {
	return &quizService{quizRepo: quizRepo, assignmentRepo: assignmentRepo}
}

func (s *quizService) Create(ctx context.Context, teacher auth.Teacher, req dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	fields := map[string]string{}
	questions := make([]model.Question, 0, len(req.Questions))
	for i, in := range req.Questions {
		validateQuestionInput(in, fmt.Sprintf("questions[%d].", i), fields)
		questions = append(questions, buildQuestion(in))
	}
	if len(fields) > 0 {
		return nil, Validation("Invalid questions", fields)
	}

	quiz := model.Quiz{
		CreatorID:        teacher.ID,
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitSeconds: normalizeTimeLimit(req.TimeLimitSeconds),
		ShuffleQuestions: req.ShuffleQuestions,
		Questions:        questions,
	}
	if err := s.quizRepo.Create(ctx, &quiz); err != nil {
		log.Error().Err(err).Uint("teacherID", teacher.ID).Msg("Failed to create quiz")
		return nil, fmt.Errorf("creating quiz: %w", err)
	}
	log.Info().Uint("quizID", quiz.ID).Int("questions", len(questions)).Msg("Quiz created")

	return s.GetForTeacher(ctx, teacher, quiz.ID)
}

func (s *quizService) Update(ctx context.Context, teacher auth.Teacher, quizID uint, req dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.FindOwned(ctx, quizID, teacher.ID)
	if err != nil {
		return nil, notFoundOr(err, "Quiz", "loading quiz")
	}
	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimitSeconds != nil {
		quiz.TimeLimitSeconds = normalizeTimeLimit(req.TimeLimitSeconds)
	}
	if req.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *req.ShuffleQuestions
	}
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to update quiz")
		return nil, fmt.Errorf("updating quiz: %w", err)
	}
	resp := toQuizResponse(quiz)
	return &resp, nil
}

func (s *quizService) Delete(ctx context.Context, teacher auth.Teacher, quizID uint) error {
	if _, err := s.quizRepo.FindOwned(ctx, quizID, teacher.ID); err != nil {
		return notFoundOr(err, "Quiz", "loading quiz")
	}
	if err := s.quizRepo.Delete(ctx, quizID); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to delete quiz")
		return fmt.Errorf("deleting quiz: %w", err)
	}
	log.Info().Uint("quizID", quizID).Msg("Quiz deleted")
	return nil
}

func (s *quizService) ListForTeacher(ctx context.Context, teacher auth.Teacher) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.FindByCreator(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("listing quizzes: %w", err)
	}
	out := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, toQuizResponse(&quizzes[i]))
	}
	return out, nil
}

func (s *quizService) GetForTeacher(ctx context.Context, teacher auth.Teacher, quizID uint) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.FindOwned(ctx, quizID, teacher.ID)
	if err != nil {
		return nil, notFoundOr(err, "Quiz", "loading quiz")
	}
	resp := toQuizResponse(quiz)
	return &resp, nil
}

// ListForStudent returns the quizzes the student holds an active assignment for.
func (s *quizService) ListForStudent(ctx context.Context, student auth.Student) ([]dto.StudentQuizResponse, error) {
	quizzes, err := s.quizRepo.FindAssignedToStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("listing assigned quizzes: %w", err)
	}
	out := make([]dto.StudentQuizResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, toStudentQuizResponse(&quizzes[i], nil))
	}
	return out, nil
}

func (s *quizService) GetForStudent(ctx context.Context, student auth.Student, quizID uint) (*dto.StudentQuizResponse, error) {
	if _, err := s.assignmentRepo.FindActive(ctx, quizID, student.ID); err != nil {
		return nil, notFoundOr(err, "Quiz", "checking assignment")
	}
	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, quizID)
	if err != nil {
		return nil, notFoundOr(err, "Quiz", "loading quiz")
	}
	resp := toStudentQuizResponse(quiz, nil)
	return &resp, nil
}

// normalizeTimeLimit treats zero as "no limit".
func normalizeTimeLimit(limit *int) *int {
	if limit == nil || *limit <= 0 {
		return nil
	}
	v := *limit
	return &v
}

// validateQuestionInput checks inline choices against the question type and
// records problems in fields under prefix. A question created without
// choices is accepted; choices can be added later.
func validateQuestionInput(in dto.QuestionInput, prefix string, fields map[string]string) {
	if len(in.Choices) == 0 {
		return
	}
	switch in.Type {
	case model.QuestionShort:
		fields[prefix+"choices"] = "Short-answer questions cannot have choices."
		return
	case model.QuestionTF:
		if len(in.Choices) > 2 {
			fields[prefix+"choices"] = "A true/false question can have at most 2 choices."
			return
		}
	}
	for _, c := range in.Choices {
		if c.IsCorrect {
			return
		}
	}
	fields[prefix+"choices"] = "At least one choice must be marked correct."
}

func buildQuestion(in dto.QuestionInput) model.Question {
	points := in.Points
	if points <= 0 {
		points = 1
	}
	q := model.Question{
		Text:            in.Text,
		Type:            in.Type,
		Points:          points,
		Order:           in.Order,
		ReferenceAnswer: in.ReferenceAnswer,
		Choices:         make([]model.Choice, 0, len(in.Choices)),
	}
	for _, c := range in.Choices {
		q.Choices = append(q.Choices, model.Choice{Text: c.Text, IsCorrect: c.IsCorrect, Order: c.Order})
	}
	return q
}
