package model

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptFinished   AttemptStatus = "finished"
)

type Attempt struct {
	ID               uint                      `gorm:"primarykey" json:"id"`
	QuizID           uint                      `json:"quiz_id" gorm:"not null;index:idx_attempts_student_quiz,priority:2"`
	Quiz             Quiz                      `json:"quiz,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	StudentID        uint                      `json:"student_id" gorm:"not null;index:idx_attempts_student_quiz,priority:1"`
	Student          User                      `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	StartTime        time.Time                 `json:"start_time" gorm:"not null"`
	FinishTime       *time.Time                `json:"finish_time,omitempty"`
	Status           AttemptStatus             `json:"status" gorm:"size:20;not null;default:'in_progress';index"`
	Score            *float64                  `json:"score,omitempty"` // percentage, nil until finished
	TotalCorrect     int                       `json:"total_correct" gorm:"not null;default:0"`
	TotalWrong       int                       `json:"total_wrong" gorm:"not null;default:0"`
	TimeLimitSeconds *int                      `json:"time_limit_seconds,omitempty"` // captured from the quiz at start
	QuestionOrder    datatypes.JSONSlice[uint] `json:"question_order,omitempty"`
	Answers          []AttemptAnswer           `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

func (a *Attempt) IsFinished() bool { return a.Status == AttemptFinished }

// HasTimeLimit is false for a nil or zero limit, both of which mean unlimited.
func (a *Attempt) HasTimeLimit() bool {
	return a.TimeLimitSeconds != nil && *a.TimeLimitSeconds > 0
}

// TimeLeftSeconds returns max(0, limit - elapsed) truncated to whole seconds.
// The second result is false when the attempt has no limit.
func (a *Attempt) TimeLeftSeconds(now time.Time) (int, bool) {
	if !a.HasTimeLimit() {
		return 0, false
	}
	elapsed := now.Sub(a.StartTime).Seconds()
	left := float64(*a.TimeLimitSeconds) - elapsed
	if left < 0 {
		return 0, true
	}
	return int(left), true
}
