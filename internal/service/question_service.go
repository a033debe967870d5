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

type QuestionService interface {
	Create(ctx context.Context, teacher auth.Teacher, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetForTeacher(ctx context.Context, teacher auth.Teacher, id uint) (*dto.QuestionResponse, error)
	GetForStudent(ctx context.Context, student auth.Student, id uint) (*dto.StudentQuestionResponse, error)
	ListForTeacher(ctx context.Context, teacher auth.Teacher, quizID *uint) ([]dto.QuestionResponse, error)
	ListForStudent(ctx context.Context, student auth.Student, quizID *uint) ([]dto.StudentQuestionResponse, error)
	Update(ctx context.Context, teacher auth.Teacher, id uint, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	Delete(ctx context.Context, teacher auth.Teacher, id uint) error
}

type questionService struct {
	repo           repository.QuestionRepository
	quizRepo       repository.QuizRepository
	assignmentRepo repository.AssignmentRepository
}

func NewQuestionService(
	repo repository.QuestionRepository,
	quizRepo repository.QuizRepository,
	assignmentRepo repository.AssignmentRepository,
) QuestionService {
	return &questionService{repo: repo, quizRepo: quizRepo, assignmentRepo: assignmentRepo}
}

func (s *questionService) Create(ctx context.Context, teacher auth.Teacher, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := s.requireOwnedQuiz(ctx, teacher, req.QuizID); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	validateQuestionInput(req.QuestionInput, "", fields)
	if len(fields) > 0 {
		return nil, Validation("Invalid question", fields)
	}

	question := buildQuestion(req.QuestionInput)
	question.QuizID = req.QuizID
	if err := s.repo.Create(ctx, &question); err != nil {
		log.Error().Err(err).Uint("quizID", req.QuizID).Msg("Failed to create question")
		return nil, fmt.Errorf("creating question: %w", err)
	}
	resp := toQuestionResponse(&question)
	return &resp, nil
}

func (s *questionService) GetForTeacher(ctx context.Context, teacher auth.Teacher, id uint) (*dto.QuestionResponse, error) {
	question, err := s.ownedQuestion(ctx, teacher, id)
	if err != nil {
		return nil, err
	}
	resp := toQuestionResponse(question)
	return &resp, nil
}

func (s *questionService) GetForStudent(ctx context.Context, student auth.Student, id uint) (*dto.StudentQuestionResponse, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Question", "loading question")
	}
	if _, err := s.assignmentRepo.FindActive(ctx, question.QuizID, student.ID); err != nil {
		return nil, notFoundOr(err, "Question", "checking assignment")
	}
	resp := toStudentQuestionResponse(question)
	return &resp, nil
}

func (s *questionService) ListForTeacher(ctx context.Context, teacher auth.Teacher, quizID *uint) ([]dto.QuestionResponse, error) {
	var quizIDs []uint
	if quizID != nil {
		if err := s.requireOwnedQuiz(ctx, teacher, *quizID); err != nil {
			return nil, err
		}
		quizIDs = []uint{*quizID}
	} else {
		quizzes, err := s.quizRepo.FindByCreator(ctx, teacher.ID)
		if err != nil {
			return nil, fmt.Errorf("listing quizzes: %w", err)
		}
		for _, q := range quizzes {
			quizIDs = append(quizIDs, q.ID)
		}
	}

	questions, err := s.repo.FindByQuizIDs(ctx, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	out := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, toQuestionResponse(&questions[i]))
	}
	return out, nil
}

func (s *questionService) ListForStudent(ctx context.Context, student auth.Student, quizID *uint) ([]dto.StudentQuestionResponse, error) {
	var quizIDs []uint
	if quizID != nil {
		if _, err := s.assignmentRepo.FindActive(ctx, *quizID, student.ID); err != nil {
			return nil, notFoundOr(err, "Quiz", "checking assignment")
		}
		quizIDs = []uint{*quizID}
	} else {
		assignments, err := s.assignmentRepo.FindActiveByStudent(ctx, student.ID)
		if err != nil {
			return nil, fmt.Errorf("listing assignments: %w", err)
		}
		for _, a := range assignments {
			quizIDs = append(quizIDs, a.QuizID)
		}
	}

	questions, err := s.repo.FindByQuizIDs(ctx, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	out := make([]dto.StudentQuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, toStudentQuestionResponse(&questions[i]))
	}
	return out, nil
}

func (s *questionService) Update(ctx context.Context, teacher auth.Teacher, id uint, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.ownedQuestion(ctx, teacher, id)
	if err != nil {
		return nil, err
	}
	if req.Type != nil {
		switch {
		case *req.Type == model.QuestionShort && len(question.Choices) > 0:
			return nil, FieldError("qtype", "Remove the choices before changing to a short-answer question.")
		case *req.Type == model.QuestionTF && len(question.Choices) > 2:
			return nil, FieldError("qtype", "A true/false question can have at most 2 choices.")
		}
		question.Type = *req.Type
	}
	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Order != nil {
		question.Order = *req.Order
	}
	if req.ReferenceAnswer != nil {
		question.ReferenceAnswer = req.ReferenceAnswer
		if *req.ReferenceAnswer == "" {
			question.ReferenceAnswer = nil
		}
	}
	if err := s.repo.Update(ctx, question); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to update question")
		return nil, fmt.Errorf("updating question: %w", err)
	}
	resp := toQuestionResponse(question)
	return &resp, nil
}

func (s *questionService) Delete(ctx context.Context, teacher auth.Teacher, id uint) error {
	if _, err := s.ownedQuestion(ctx, teacher, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to delete question")
		return fmt.Errorf("deleting question: %w", err)
	}
	return nil
}

func (s *questionService) requireOwnedQuiz(ctx context.Context, teacher auth.Teacher, quizID uint) error {
	quiz, err := s.quizRepo.FindByID(ctx, quizID)
	if err != nil {
		return notFoundOr(err, "Quiz", "loading quiz")
	}
	if quiz.CreatorID != teacher.ID {
		return NotFound("Quiz")
	}
	return nil
}

// ownedQuestion loads a question with its choices when its quiz belongs to teacher.
func (s *questionService) ownedQuestion(ctx context.Context, teacher auth.Teacher, id uint) (*model.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Question", "loading question")
	}
	if err := s.requireOwnedQuiz(ctx, teacher, question.QuizID); err != nil {
		if _, ok := AsError(err); ok {
			return nil, NotFound("Question")
		}
		return nil, err
	}
	return question, nil
}
