package dto

import (
	"encoding/json"
	"time"

	"github.com/lshigami/Quizdesk/internal/model"
)

type RegisterRequest struct {
	Username string     `json:"username" binding:"required,max=150"`
	Email    string     `json:"email" binding:"omitempty,email"`
	Password string     `json:"password" binding:"required,min=6"`
	Role     model.Role `json:"role" binding:"required,oneof=teacher student"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// ChoiceInput is a choice created inline with a question, or on its own via CreateChoiceRequest.
type ChoiceInput struct {
	Text      string `json:"text" binding:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order" binding:"min=0"`
}

// QuestionInput is a question created inline with a quiz, or on its own via CreateQuestionRequest.
type QuestionInput struct {
	Text            string             `json:"text" binding:"required"`
	Type            model.QuestionType `json:"qtype" binding:"required,oneof=mcq tf short"`
	Points          int                `json:"points" binding:"omitempty,min=1"` // defaults to 1
	Order           int                `json:"order" binding:"min=0"`
	ReferenceAnswer *string            `json:"reference_answer"`
	Choices         []ChoiceInput      `json:"choices" binding:"omitempty,dive"`
}

type CreateQuizRequest struct {
	Title            string          `json:"title" binding:"required,max=255"`
	Description      string          `json:"description"`
	TimeLimitSeconds *int            `json:"time_limit_seconds" binding:"omitempty,min=0"`
	ShuffleQuestions bool            `json:"shuffle_questions"`
	Questions        []QuestionInput `json:"questions" binding:"omitempty,dive"`
}

// UpdateQuizRequest is the PATCH body; nil fields are left unchanged.
// A time limit of 0 clears the limit.
type UpdateQuizRequest struct {
	Title            *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description      *string `json:"description"`
	TimeLimitSeconds *int    `json:"time_limit_seconds" binding:"omitempty,min=0"`
	ShuffleQuestions *bool   `json:"shuffle_questions"`
}

// ReplaceQuizRequest is the PUT body. Omitted fields fall back to their
// defaults. Questions are not part of it.
type ReplaceQuizRequest struct {
	Title            string `json:"title" binding:"required,max=255"`
	Description      string `json:"description"`
	TimeLimitSeconds *int   `json:"time_limit_seconds" binding:"omitempty,min=0"`
	ShuffleQuestions bool   `json:"shuffle_questions"`
}

// Update expresses the replacement as an update that sets every field.
func (r ReplaceQuizRequest) Update() UpdateQuizRequest {
	limit := 0
	if r.TimeLimitSeconds != nil {
		limit = *r.TimeLimitSeconds
	}
	return UpdateQuizRequest{
		Title:            &r.Title,
		Description:      &r.Description,
		TimeLimitSeconds: &limit,
		ShuffleQuestions: &r.ShuffleQuestions,
	}
}

type CreateQuestionRequest struct {
	QuizID uint `json:"quiz" binding:"required"`
	QuestionInput
}

// UpdateQuestionRequest is the PATCH body. An empty reference_answer clears it.
type UpdateQuestionRequest struct {
	Text            *string             `json:"text" binding:"omitempty,min=1"`
	Type            *model.QuestionType `json:"qtype" binding:"omitempty,oneof=mcq tf short"`
	Points          *int                `json:"points" binding:"omitempty,min=1"`
	Order           *int                `json:"order" binding:"omitempty,min=0"`
	ReferenceAnswer *string             `json:"reference_answer"`
}

// ReplaceQuestionRequest is the PUT body. The quiz and choices stay as they are.
type ReplaceQuestionRequest struct {
	Text            string             `json:"text" binding:"required"`
	Type            model.QuestionType `json:"qtype" binding:"required,oneof=mcq tf short"`
	Points          int                `json:"points" binding:"omitempty,min=1"` // defaults to 1
	Order           int                `json:"order" binding:"min=0"`
	ReferenceAnswer *string            `json:"reference_answer"`
}

func (r ReplaceQuestionRequest) Update() UpdateQuestionRequest {
	points := r.Points
	if points == 0 {
		points = 1
	}
	ref := ""
	if r.ReferenceAnswer != nil {
		ref = *r.ReferenceAnswer
	}
	return UpdateQuestionRequest{
		Text:            &r.Text,
		Type:            &r.Type,
		Points:          &points,
		Order:           &r.Order,
		ReferenceAnswer: &ref,
	}
}

type CreateChoiceRequest struct {
	QuestionID uint `json:"question" binding:"required"`
	ChoiceInput
}

type UpdateChoiceRequest struct {
	Text      *string `json:"text" binding:"omitempty,min=1,max=500"`
	IsCorrect *bool   `json:"is_correct"`
	Order     *int    `json:"order" binding:"omitempty,min=0"`
}

// ReplaceChoiceRequest is the PUT body. The question stays as it is.
type ReplaceChoiceRequest struct {
	Text      string `json:"text" binding:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order" binding:"min=0"`
}

func (r ReplaceChoiceRequest) Update() UpdateChoiceRequest {
	return UpdateChoiceRequest{Text: &r.Text, IsCorrect: &r.IsCorrect, Order: &r.Order}
}

// AssignRequest keeps students raw so a non-list payload can be reported as a
// field error instead of a generic decode failure.
type AssignRequest struct {
	Students json.RawMessage `json:"students" swaggertype:"array,integer"`
}

// UpdateAssignmentRequest is the PATCH body; nil fields are left unchanged.
// ClearWindow removes both window bounds before any bound sent with it is applied.
type UpdateAssignmentRequest struct {
	IsActive       *bool      `json:"is_active"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
	ClearWindow    bool       `json:"clear_window"`
}

type SubmitAnswerRequest struct {
	QuestionID       *uint   `json:"question" binding:"required"`
	SelectedChoiceID *uint   `json:"selected_choice"`
	ShortAnswerText  *string `json:"short_answer_text"`
}

// DraftFeedbackRequest narrows drafting to one question; empty means every
// short answer on the attempt.
type DraftFeedbackRequest struct {
	QuestionID *uint `json:"question"`
}
