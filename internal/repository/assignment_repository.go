package repository

import (
	"context"

	"github.com/lshigami/Quizdesk/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	WithTx(tx *gorm.DB) AssignmentRepository
	// CreateIfAbsent inserts the assignment unless (quiz, student) already
	// exists. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, assignment *model.Assignment) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.Assignment, error)
	FindActive(ctx context.Context, quizID, studentID uint) (*model.Assignment, error)
	FindByQuizID(ctx context.Context, quizID uint) ([]model.Assignment, error)
	FindActiveByStudent(ctx context.Context, studentID uint) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: tx}
}

func (r *assignmentRepository) CreateIfAbsent(ctx context.Context, assignment *model.Assignment) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "student_id"}},
			DoNothing: true,
		}).
		Create(assignment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Quiz").
		Preload("Student").
		First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindActive(ctx context.Context, quizID, studentID uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND student_id = ? AND is_active = ?", quizID, studentID, true).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByQuizID(ctx context.Context, quizID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) FindActiveByStudent(ctx context.Context, studentID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Quiz").
		Preload("Quiz.Questions").
		Where("student_id = ? AND is_active = ?", studentID, true).
		Order("assigned_at DESC, id DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Assignment{}, id).Error
}
