package repository

import (
	"context"

	"github.com/lshigami/Quizdesk/internal/model"
	"gorm.io/gorm"
)

type ChoiceRepository interface {
	Create(ctx context.Context, choice *model.Choice) error
	FindByID(ctx context.Context, id uint) (*model.Choice, error)
	FindByQuestionID(ctx context.Context, questionID uint) ([]model.Choice, error)
	FindInQuestion(ctx context.Context, id, questionID uint) (*model.Choice, error)
	Update(ctx context.Context, choice *model.Choice) error
	Delete(ctx context.Context, id uint) error
}

type choiceRepository struct {
	db *gorm.DB
}

func NewChoiceRepository(db *gorm.DB) ChoiceRepository {
	return &choiceRepository{db: db}
}

func (r *choiceRepository) Create(ctx context.Context, choice *model.Choice) error {
	return r.db.WithContext(ctx).Create(choice).Error
}

func (r *choiceRepository) FindByID(ctx context.Context, id uint) (*model.Choice, error) {
	var choice model.Choice
	if err := r.db.WithContext(ctx).First(&choice, id).Error; err != nil {
		return nil, err
	}
	return &choice, nil
}

func (r *choiceRepository) FindByQuestionID(ctx context.Context, questionID uint) ([]model.Choice, error) {
	var choices []model.Choice
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("display_order ASC, id ASC").
		Find(&choices).Error
	return choices, err
}

func (r *choiceRepository) FindInQuestion(ctx context.Context, id, questionID uint) (*model.Choice, error) {
	var choice model.Choice
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		First(&choice, id).Error
	if err != nil {
		return nil, err
	}
	return &choice, nil
}

func (r *choiceRepository) Update(ctx context.Context, choice *model.Choice) error {
	return r.db.WithContext(ctx).Save(choice).Error
}

func (r *choiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Choice{}, id).Error
}
