package model

import "time"

type Assignment struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	QuizID         uint       `json:"quiz_id" gorm:"not null;uniqueIndex:idx_assignments_quiz_student"`
	Quiz           Quiz       `json:"quiz,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	StudentID      uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_assignments_quiz_student;index"`
	Student        User       `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssignedByID   *uint      `json:"assigned_by_id,omitempty" gorm:"index"`
	AssignedBy     *User      `json:"assigned_by,omitempty" gorm:"foreignKey:AssignedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	AssignedAt     time.Time  `json:"assigned_at" gorm:"not null"`
	AvailableFrom  *time.Time `json:"available_from,omitempty"`
	AvailableUntil *time.Time `json:"available_until,omitempty"`
	IsActive       bool       `json:"is_active" gorm:"not null"`
}

// AvailableAt reports whether now falls inside the optional availability window.
func (a *Assignment) AvailableAt(now time.Time) bool {
	if a.AvailableFrom != nil && now.Before(*a.AvailableFrom) {
		return false
	}
	if a.AvailableUntil != nil && now.After(*a.AvailableUntil) {
		return false
	}
	return true
}
