package model

import (
	"time"
)

type Quiz struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	CreatorID        uint       `json:"creator_id" gorm:"not null;index"`
	Creator          User       `json:"creator,omitempty" gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title            string     `json:"title" gorm:"size:255;not null"`
	Description      string     `json:"description,omitempty" gorm:"type:text"`
	TimeLimitSeconds *int       `json:"time_limit_seconds,omitempty"` // nil means unlimited
	ShuffleQuestions bool       `json:"shuffle_questions" gorm:"not null;default:false"`
	Questions        []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TotalPoints sums the points of every question on the quiz. Questions must be loaded.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// QuestionIDs returns the ids of the loaded questions in display order.
func (q *Quiz) QuestionIDs() []uint {
	ids := make([]uint, 0, len(q.Questions))
	for _, question := range q.Questions {
		ids = append(ids, question.ID)
	}
	return ids
}
