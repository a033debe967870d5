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

// ChoiceService manages choices. Choices expose correctness, so every
// operation is teacher-only and scoped to the teacher's own quizzes.
type ChoiceService interface {
	Create(ctx context.Context, teacher auth.Teacher, req dto.CreateChoiceRequest) (*dto.ChoiceResponse, error)
	Get(ctx context.Context, teacher auth.Teacher, id uint) (*dto.ChoiceResponse, error)
	List(ctx context.Context, teacher auth.Teacher, questionID uint) ([]dto.ChoiceResponse, error)
	Update(ctx context.Context, teacher auth.Teacher, id uint, req dto.UpdateChoiceRequest) (*dto.ChoiceResponse, error)
	Delete(ctx context.Context, teacher auth.Teacher, id uint) error
}

type choiceService struct {
	repo         repository.ChoiceRepository
	questionRepo repository.QuestionRepository
	quizRepo     repository.QuizRepository
}

func NewChoiceService(
	repo repository.ChoiceRepository,
	questionRepo repository.QuestionRepository,
	quizRepo repository.QuizRepository,
) ChoiceService {
	return &choiceService{repo: repo, questionRepo: questionRepo, quizRepo: quizRepo}
}

func (s *choiceService) Create(ctx context.Context, teacher auth.Teacher, req dto.CreateChoiceRequest) (*dto.ChoiceResponse, error) {
	question, err := s.ownedQuestion(ctx, teacher, req.QuestionID)
	if err != nil {
		return nil, err
	}
	switch {
	case question.Type == model.QuestionShort:
		return nil, FieldError("question", "Short-answer questions cannot have choices.")
	case question.Type == model.QuestionTF && len(question.Choices) >= 2:
		return nil, FieldError("question", "A true/false question can have at most 2 choices.")
	}

	choice := model.Choice{
		QuestionID: question.ID,
		Text:       req.Text,
		IsCorrect:  req.IsCorrect,
		Order:      req.Order,
	}
	if err := s.repo.Create(ctx, &choice); err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Failed to create choice")
		return nil, fmt.Errorf("creating choice: %w", err)
	}
	resp := toChoiceResponse(&choice)
	return &resp, nil
}

func (s *choiceService) Get(ctx context.Context, teacher auth.Teacher, id uint) (*dto.ChoiceResponse, error) {
	choice, err := s.ownedChoice(ctx, teacher, id)
	if err != nil {
		return nil, err
	}
	resp := toChoiceResponse(choice)
	return &resp, nil
}

func (s *choiceService) List(ctx context.Context, teacher auth.Teacher, questionID uint) ([]dto.ChoiceResponse, error) {
	question, err := s.ownedQuestion(ctx, teacher, questionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChoiceResponse, 0, len(question.Choices))
	for i := range question.Choices {
		out = append(out, toChoiceResponse(&question.Choices[i]))
	}
	return out, nil
}

func (s *choiceService) Update(ctx context.Context, teacher auth.Teacher, id uint, req dto.UpdateChoiceRequest) (*dto.ChoiceResponse, error) {
	choice, err := s.ownedChoice(ctx, teacher, id)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		choice.Text = *req.Text
	}
	if req.IsCorrect != nil {
		choice.IsCorrect = *req.IsCorrect
	}
	if req.Order != nil {
		choice.Order = *req.Order
	}
	if err := s.repo.Update(ctx, choice); err != nil {
		log.Error().Err(err).Uint("choiceID", id).Msg("Failed to update choice")
		return nil, fmt.Errorf("updating choice: %w", err)
	}
	resp := toChoiceResponse(choice)
	return &resp, nil
}

func (s *choiceService) Delete(ctx context.Context, teacher auth.Teacher, id uint) error {
	if _, err := s.ownedChoice(ctx, teacher, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("choiceID", id).Msg("Failed to delete choice")
		return fmt.Errorf("deleting choice: %w", err)
	}
	return nil
}

func (s *choiceService) ownedQuestion(ctx context.Context, teacher auth.Teacher, questionID uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, notFoundOr(err, "Question", "loading question")
	}
	quiz, err := s.quizRepo.FindByID(ctx, question.QuizID)
	if err != nil {
		return nil, notFoundOr(err, "Question", "loading quiz")
	}
	if quiz.CreatorID != teacher.ID {
		return nil, NotFound("Question")
	}
	return question, nil
}

func (s *choiceService) ownedChoice(ctx context.Context, teacher auth.Teacher, id uint) (*model.Choice, error) {
	choice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Choice", "loading choice")
	}
	if _, err := s.ownedQuestion(ctx, teacher, choice.QuestionID); err != nil {
		if _, ok := AsError(err); ok {
			return nil, NotFound("Choice")
		}
		return nil, err
	}
	return choice, nil
}
