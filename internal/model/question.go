package model

import (
	"time"
)

type QuestionType string

const (
	QuestionMCQ   QuestionType = "mcq"
	QuestionTF    QuestionType = "tf"
	QuestionShort QuestionType = "short"
)

// IsObjective reports whether answers can be graded by comparing the selected choice.
func (t QuestionType) IsObjective() bool {
	return t == QuestionMCQ || t == QuestionTF
}

type Question struct {
	ID              uint         `gorm:"primarykey" json:"id"`
	QuizID          uint         `json:"quiz_id" gorm:"not null;index"`
	Text            string       `json:"text" gorm:"type:text;not null"`
	Type            QuestionType `json:"qtype" gorm:"size:10;not null;default:mcq"`
	Points          int          `json:"points" gorm:"not null;default:1"`
	Order           int          `json:"order" gorm:"column:display_order;not null;default:0"`
	ReferenceAnswer *string      `json:"reference_answer,omitempty" gorm:"type:text"`
	Choices         []Choice     `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type Choice struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"size:500;not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"not null;default:false"`
	Order      int       `json:"order" gorm:"column:display_order;not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasCorrectChoice reports whether at least one loaded choice is flagged correct.
func (q *Question) HasCorrectChoice() bool {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return true
		}
	}
	return false
}
