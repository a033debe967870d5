package model

import (
	"time"
)

type AttemptAnswer struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	AttemptID        uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_attempt_answers_attempt_question"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_answers_attempt_question;index"`
	Question         Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SelectedChoiceID *uint     `json:"selected_choice_id,omitempty" gorm:"index"`
	SelectedChoice   *Choice   `json:"selected_choice,omitempty" gorm:"foreignKey:SelectedChoiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	ShortAnswerText  *string   `json:"short_answer_text,omitempty" gorm:"type:text"`
	IsCorrect        *bool     `json:"is_correct,omitempty"` // nil for short answers and ungraded choices
	Feedback         *string   `json:"feedback,omitempty" gorm:"type:text"`
	AnsweredAt       time.Time `json:"answered_at" gorm:"not null"`
}
