package repository

import (
	"context"

	"github.com/lshigami/Quizdesk/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	WithTx(tx *gorm.DB) AnswerRepository
	// Upsert writes the answer for (attempt, question), replacing any earlier
	// one, and reloads it with its question and selected choice.
	Upsert(ctx context.Context, answer *model.AttemptAnswer) (*model.AttemptAnswer, error)
	FindByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*model.AttemptAnswer, error)
	FindByAttemptID(ctx context.Context, attemptID uint) ([]model.AttemptAnswer, error)
	FindWrongByAttemptID(ctx context.Context, attemptID uint) ([]model.AttemptAnswer, error)
	SetCorrectness(ctx context.Context, id uint, correct bool) error
	UpdateFeedback(ctx context.Context, id uint, feedback string) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) WithTx(tx *gorm.DB) AnswerRepository {
	return &answerRepository{db: tx}
}

func withAnswerRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Question").Preload("SelectedChoice")
}

func (r *answerRepository) Upsert(ctx context.Context, answer *model.AttemptAnswer) (*model.AttemptAnswer, error) {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"selected_choice_id", "short_answer_text", "is_correct", "answered_at"}),
		}).
		Create(answer).Error
	if err != nil {
		return nil, err
	}
	return r.FindByAttemptAndQuestion(ctx, answer.AttemptID, answer.QuestionID)
}

func (r *answerRepository) FindByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*model.AttemptAnswer, error) {
	var answer model.AttemptAnswer
	err := withAnswerRefs(r.db.WithContext(ctx)).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByAttemptID(ctx context.Context, attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := withAnswerRefs(r.db.WithContext(ctx)).
		Where("attempt_id = ?", attemptID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindWrongByAttemptID(ctx context.Context, attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := withAnswerRefs(r.db.WithContext(ctx)).
		Where("attempt_id = ? AND is_correct = ?", attemptID, false).
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) SetCorrectness(ctx context.Context, id uint, correct bool) error {
	return r.db.WithContext(ctx).Model(&model.AttemptAnswer{}).
		Where("id = ?", id).
		Update("is_correct", correct).Error
}

func (r *answerRepository) UpdateFeedback(ctx context.Context, id uint, feedback string) error {
	return r.db.WithContext(ctx).Model(&model.AttemptAnswer{}).
		Where("id = ?", id).
		Update("feedback", feedback).Error
}
