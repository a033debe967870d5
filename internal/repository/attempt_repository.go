package repository

import (
	"context"
	"time"

	"github.com/lshigami/Quizdesk/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttemptTotals are the fields written when an attempt is finished.
type AttemptTotals struct {
	Score        float64
	TotalCorrect int
	TotalWrong   int
	FinishTime   time.Time
}

type AttemptRepository interface {
	WithTx(tx *gorm.DB) AttemptRepository
	Create(ctx context.Context, attempt *model.Attempt) error
	FindByIDForStudent(ctx context.Context, id, studentID uint) (*model.Attempt, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*model.Attempt, error)
	FindByQuizID(ctx context.Context, quizID uint) ([]model.Attempt, error)
	// MarkFinished flips an in-progress attempt to finished and returns the
	// number of rows changed; zero means another finish got there first.
	MarkFinished(ctx context.Context, id uint, totals AttemptTotals) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) WithTx(tx *gorm.DB) AttemptRepository {
	return &attemptRepository{db: tx}
}

func withAnswerDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Student").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("attempt_answers.id ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers.SelectedChoice")
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
}

func (r *attemptRepository) FindByIDForStudent(ctx context.Context, id, studentID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithDetails(ctx context.Context, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := withAnswerDetails(r.db.WithContext(ctx)).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByQuizID(ctx context.Context, quizID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := withAnswerDetails(r.db.WithContext(ctx)).
		Where("quiz_id = ?", quizID).
		Order("start_time DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) MarkFinished(ctx context.Context, id uint, totals AttemptTotals) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ? AND status = ?", id, model.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":        model.AttemptFinished,
			"finish_time":   totals.FinishTime,
			"score":         totals.Score,
			"total_correct": totals.TotalCorrect,
			"total_wrong":   totals.TotalWrong,
		})
	return res.RowsAffected, res.Error
}
