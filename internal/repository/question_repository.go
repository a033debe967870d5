package repository

import (
	"context"

	"github.com/lshigami/Quizdesk/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByQuizID(ctx context.Context, quizID uint) ([]model.Question, error)
	FindByQuizIDs(ctx context.Context, quizIDs []uint) ([]model.Question, error)
	FindInQuiz(ctx context.Context, id, quizID uint) (*model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func withChoices(db *gorm.DB) *gorm.DB {
	return db.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("choices.display_order ASC, choices.id ASC")
	})
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := withChoices(r.db.WithContext(ctx)).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByQuizID(ctx context.Context, quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := withChoices(r.db.WithContext(ctx)).
		Where("quiz_id = ?", quizID).
		Order("display_order ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindByQuizIDs(ctx context.Context, quizIDs []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(quizIDs) == 0 {
		return questions, nil
	}
	err := withChoices(r.db.WithContext(ctx)).
		Where("quiz_id IN ?", quizIDs).
		Order("quiz_id ASC, display_order ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

// FindInQuiz returns the question only when it belongs to quizID.
func (r *questionRepository) FindInQuiz(ctx context.Context, id, quizID uint) (*model.Question, error) {
	var question model.Question
	err := withChoices(r.db.WithContext(ctx)).
		Where("quiz_id = ?", quizID).
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Question{}, id).Error
}
