package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/lshigami/Quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
)

// FeedbackService drafts teacher feedback for short answers on finished attempts.
type FeedbackService interface {
	DraftForAttempt(ctx context.Context, teacher auth.Teacher, attemptID uint, req dto.DraftFeedbackRequest) ([]dto.AttemptAnswerResponse, error)
}

type feedbackService struct {
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	quizRepo    repository.QuizRepository
	drafter     FeedbackDrafter
}

func NewFeedbackService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	quizRepo repository.QuizRepository,
	drafter FeedbackDrafter,
) FeedbackService {
	return &feedbackService{
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		quizRepo:    quizRepo,
		drafter:     drafter,
	}
}

func (s *feedbackService) DraftForAttempt(ctx context.Context, teacher auth.Teacher, attemptID uint, req dto.DraftFeedbackRequest) ([]dto.AttemptAnswerResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(ctx, attemptID)
	if err != nil {
		return nil, notFoundOr(err, "Attempt", "loading attempt")
	}
	quiz, err := s.quizRepo.FindByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, notFoundOr(err, "Attempt", "loading quiz")
	}
	if quiz.CreatorID != teacher.ID {
		return nil, NotFound("Attempt")
	}
	if !attempt.IsFinished() {
		return nil, ErrAttemptInProgress
	}
	if !s.drafter.Enabled() {
		return nil, ErrFeedbackDisabled
	}

	drafted := make([]model.AttemptAnswer, 0)
	var failures int
	for _, a := range attempt.Answers {
		if a.Question.Type != model.QuestionShort || a.ShortAnswerText == nil || strings.TrimSpace(*a.ShortAnswerText) == "" {
			continue
		}
		if req.QuestionID != nil && *req.QuestionID != a.QuestionID {
			continue
		}
		draft, err := s.drafter.DraftFeedback(ctx, &a.Question, *a.ShortAnswerText)
		if err != nil {
			failures++
			log.Warn().Err(err).Uint("answerID", a.ID).Msg("Could not draft feedback")
			continue
		}
		text := formatDraft(draft, a.Question.Points)
		if err := s.answerRepo.UpdateFeedback(ctx, a.ID, text); err != nil {
			return nil, fmt.Errorf("saving feedback for answer %d: %w", a.ID, err)
		}
		a.Feedback = &text
		drafted = append(drafted, a)
	}

	if len(drafted) == 0 && failures > 0 {
		return nil, fmt.Errorf("drafting feedback failed for all %d answers", failures)
	}
	log.Info().Uint("attemptID", attemptID).Int("drafted", len(drafted)).Int("failed", failures).Msg("Feedback drafted")
	return toAnswerResponses(drafted), nil
}

func formatDraft(d *Draft, points int) string {
	return fmt.Sprintf("Suggested score: %s/%d\n%s",
		strconv.FormatFloat(d.SuggestedPoints, 'f', -1, 64), points, d.Feedback)
}
