package repository

import (
	"context"

	"github.com/lshigami/Quizdesk/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizAttemptCount is one row of the teacher summary.
type QuizAttemptCount struct {
	QuizID   uint
	Title    string
	Attempts int64
}

type QuizRepository interface {
	WithTx(tx *gorm.DB) QuizRepository
	Create(ctx context.Context, quiz *model.Quiz) error
	Update(ctx context.Context, quiz *model.Quiz) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Quiz, error)
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error)
	FindOwned(ctx context.Context, id, creatorID uint) (*model.Quiz, error)
	FindByCreator(ctx context.Context, creatorID uint) ([]model.Quiz, error)
	FindAssignedToStudent(ctx context.Context, studentID uint) ([]model.Quiz, error)
	SummaryByCreator(ctx context.Context, creatorID uint) ([]QuizAttemptCount, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) WithTx(tx *gorm.DB) QuizRepository {
	return &quizRepository{db: tx}
}

// withQuestions preloads questions and their choices in display order.
func withQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC, questions.id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.display_order ASC, choices.id ASC")
		})
}

func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	// Inline questions and choices are created through the association.
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) Update(ctx context.Context, quiz *model.Quiz) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(quiz).Error
}

func (r *quizRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Quiz{}, id).Error
}

func (r *quizRepository) FindByID(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := withQuestions(r.db.WithContext(ctx)).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindOwned(ctx context.Context, id, creatorID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := withQuestions(r.db.WithContext(ctx)).
		Where("creator_id = ?", creatorID).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByCreator(ctx context.Context, creatorID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := withQuestions(r.db.WithContext(ctx)).
		Where("creator_id = ?", creatorID).
		Order("quizzes.id ASC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) FindAssignedToStudent(ctx context.Context, studentID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := withQuestions(r.db.WithContext(ctx)).
		Joins("JOIN assignments ON assignments.quiz_id = quizzes.id").
		Where("assignments.student_id = ? AND assignments.is_active = ?", studentID, true).
		Order("quizzes.id ASC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) SummaryByCreator(ctx context.Context, creatorID uint) ([]QuizAttemptCount, error) {
	var rows []QuizAttemptCount
	err := r.db.WithContext(ctx).Model(&model.Quiz{}).
		Select("quizzes.id AS quiz_id, quizzes.title AS title, " +
			"(SELECT COUNT(*) FROM attempts WHERE attempts.quiz_id = quizzes.id) AS attempts").
		Where("quizzes.creator_id = ?", creatorID).
		Order("quizzes.id ASC").
		Scan(&rows).Error
	return rows, err
}
