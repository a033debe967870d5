package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/clock"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/lshigami/Quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService drives an attempt from start through answers to finish.
type AttemptService interface {
	Start(ctx context.Context, student auth.Student, quizID uint) (*dto.AttemptResponse, error)
	Get(ctx context.Context, student auth.Student, attemptID uint) (*dto.AttemptResponse, error)
	SubmitAnswer(ctx context.Context, student auth.Student, attemptID uint, req dto.SubmitAnswerRequest) (*dto.AttemptAnswerResponse, error)
	Finish(ctx context.Context, student auth.Student, attemptID uint) (*dto.FinishAttemptResponse, error)
}

type attemptService struct {
	attemptRepo    repository.AttemptRepository
	answerRepo     repository.AnswerRepository
	quizRepo       repository.QuizRepository
	questionRepo   repository.QuestionRepository
	choiceRepo     repository.ChoiceRepository
	assignmentRepo repository.AssignmentRepository
	scoring        ScoringEngine
	clock          clock.Clock
	db             *gorm.DB
	shuffle        func(ids []uint)
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	choiceRepo repository.ChoiceRepository,
	assignmentRepo repository.AssignmentRepository,
	scoring ScoringEngine,
	clk clock.Clock,
	db *gorm.DB,
) AttemptService {
	return &attemptService{
		attemptRepo:    attemptRepo,
		answerRepo:     answerRepo,
		quizRepo:       quizRepo,
		questionRepo:   questionRepo,
		choiceRepo:     choiceRepo,
		assignmentRepo: assignmentRepo,
		scoring:        scoring,
		clock:          clk,
		db:             db,
		shuffle: func(ids []uint) {
			rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		},
	}
}

func (s *attemptService) Start(ctx context.Context, student auth.Student, quizID uint) (*dto.AttemptResponse, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, quizID)
	if err != nil {
		return nil, notFoundOr(err, "Quiz", "loading quiz")
	}
	assignment, err := s.assignmentRepo.FindActive(ctx, quizID, student.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, fmt.Errorf("checking assignment: %w", err)
	}

	now := s.clock.Now()
	if !assignment.AvailableAt(now) {
		return nil, ErrNotAvailable
	}

	attempt := model.Attempt{
		QuizID:           quiz.ID,
		StudentID:        student.ID,
		StartTime:        now,
		Status:           model.AttemptInProgress,
		TimeLimitSeconds: normalizeTimeLimit(quiz.TimeLimitSeconds),
	}
	if quiz.ShuffleQuestions {
		order := quiz.QuestionIDs()
		s.shuffle(order)
		attempt.QuestionOrder = order
	}
	if err := s.attemptRepo.Create(ctx, &attempt); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Uint("studentID", student.ID).Msg("Failed to create attempt")
		return nil, fmt.Errorf("creating attempt: %w", err)
	}
	log.Info().Uint("attemptID", attempt.ID).Uint("quizID", quizID).Uint("studentID", student.ID).Msg("Attempt started")

	return s.detail(ctx, attempt.ID, quiz)
}

func (s *attemptService) Get(ctx context.Context, student auth.Student, attemptID uint) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByIDForStudent(ctx, attemptID, student.ID)
	if err != nil {
		return nil, notFoundOr(err, "Attempt", "loading attempt")
	}
	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, attempt.QuizID)
	if err != nil {
		return nil, notFoundOr(err, "Quiz", "loading quiz")
	}
	return s.detail(ctx, attempt.ID, quiz)
}

// detail renders an attempt with the student view of its quiz. Questions and
// answers follow the order captured at start.
func (s *attemptService) detail(ctx context.Context, attemptID uint, quiz *model.Quiz) (*dto.AttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(ctx, attemptID)
	if err != nil {
		return nil, notFoundOr(err, "Attempt", "loading attempt")
	}
	questions := orderQuestions(quiz.Questions, attempt.QuestionOrder)
	sortAnswersByQuestions(attempt.Answers, questions)

	resp := toAttemptResponse(attempt, s.clock.Now())
	quizResp := toStudentQuizResponse(quiz, attempt.QuestionOrder)
	resp.QuizDetail = &quizResp
	return &resp, nil
}

func (s *attemptService) SubmitAnswer(ctx context.Context, student auth.Student, attemptID uint, req dto.SubmitAnswerRequest) (*dto.AttemptAnswerResponse, error) {
	attempt, err := s.attemptRepo.FindByIDForStudent(ctx, attemptID, student.ID)
	if err != nil {
		return nil, notFoundOr(err, "Attempt", "loading attempt")
	}
	if attempt.IsFinished() {
		return nil, ErrAttemptFinished
	}
	now := s.clock.Now()
	if left, limited := attempt.TimeLeftSeconds(now); limited && left <= 0 {
		return nil, ErrTimeUp
	}
	if req.QuestionID == nil {
		return nil, FieldError("question", "This field is required.")
	}

	question, err := s.questionRepo.FindInQuiz(ctx, *req.QuestionID, attempt.QuizID)
	if err != nil {
		return nil, notFoundOr(err, "Question", "loading question")
	}

	answer := model.AttemptAnswer{
		AttemptID:       attempt.ID,
		QuestionID:      question.ID,
		ShortAnswerText: req.ShortAnswerText,
		AnsweredAt:      now,
	}
	// A selected choice only means something on objective questions.
	if question.Type.IsObjective() && req.SelectedChoiceID != nil {
		choice, err := s.choiceRepo.FindInQuestion(ctx, *req.SelectedChoiceID, question.ID)
		if err != nil {
			return nil, notFoundOr(err, "Choice", "loading choice")
		}
		correct := choice.IsCorrect
		answer.SelectedChoiceID = &choice.ID
		answer.IsCorrect = &correct
	}

	saved, err := s.answerRepo.Upsert(ctx, &answer)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Uint("questionID", question.ID).Msg("Failed to save answer")
		return nil, fmt.Errorf("saving answer: %w", err)
	}
	resp := toAnswerResponse(saved)
	return &resp, nil
}

// Finish scores the attempt and closes it in one transaction. Only the first
// of several concurrent finishes commits.
func (s *attemptService) Finish(ctx context.Context, student auth.Student, attemptID uint) (*dto.FinishAttemptResponse, error) {
	now := s.clock.Now()
	var result ScoreResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempts := s.attemptRepo.WithTx(tx)
		answers := s.answerRepo.WithTx(tx)

		attempt, err := attempts.FindByIDForStudent(ctx, attemptID, student.ID)
		if err != nil {
			return notFoundOr(err, "Attempt", "loading attempt")
		}
		if attempt.IsFinished() {
			return ErrAlreadyFinished
		}
		quiz, err := s.quizRepo.WithTx(tx).FindByIDWithQuestions(ctx, attempt.QuizID)
		if err != nil {
			return notFoundOr(err, "Quiz", "loading quiz")
		}
		rows, err := answers.FindByAttemptID(ctx, attempt.ID)
		if err != nil {
			return fmt.Errorf("loading answers: %w", err)
		}

		result = s.scoring.Score(quiz.Questions, rows)
		for _, a := range rows {
			correct, graded := result.Graded[a.ID]
			if !graded {
				continue
			}
			if err := answers.SetCorrectness(ctx, a.ID, correct); err != nil {
				return fmt.Errorf("grading answer %d: %w", a.ID, err)
			}
		}

		changed, err := attempts.MarkFinished(ctx, attempt.ID, repository.AttemptTotals{
			Score:        result.Percent,
			TotalCorrect: result.Correct,
			TotalWrong:   result.Wrong,
			FinishTime:   now,
		})
		if err != nil {
			return fmt.Errorf("finishing attempt: %w", err)
		}
		if changed == 0 {
			return ErrAlreadyFinished
		}
		return nil
	})
	if err != nil {
		if _, ok := AsError(err); !ok {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to finish attempt")
		}
		return nil, err
	}

	log.Info().
		Uint("attemptID", attemptID).
		Float64("score", result.Percent).
		Int("correct", result.Correct).
		Int("wrong", result.Wrong).
		Msg("Attempt finished")
	return &dto.FinishAttemptResponse{
		Score:        result.Percent,
		TotalCorrect: result.Correct,
		TotalWrong:   result.Wrong,
	}, nil
}

// sortAnswersByQuestions orders answers by the position of their question.
func sortAnswersByQuestions(answers []model.AttemptAnswer, questions []model.Question) {
	pos := make(map[uint]int, len(questions))
	for i, q := range questions {
		pos[q.ID] = i
	}
	sort.SliceStable(answers, func(i, j int) bool {
		return pos[answers[i].QuestionID] < pos[answers[j].QuestionID]
	})
}
