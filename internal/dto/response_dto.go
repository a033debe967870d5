package dto

import (
	"time"

	"github.com/lshigami/Quizdesk/internal/model"
)

type UserResponse struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}

type TokenPairResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}

// ChoiceResponse is the teacher view of a choice.
type ChoiceResponse struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

// StudentChoiceResponse hides correctness.
type StudentChoiceResponse struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type QuestionResponse struct {
	ID              uint               `json:"id"`
	QuizID          uint               `json:"quiz"`
	Text            string             `json:"text"`
	Type            model.QuestionType `json:"qtype"`
	Points          int                `json:"points"`
	Order           int                `json:"order"`
	ReferenceAnswer *string            `json:"reference_answer"`
	Choices         []ChoiceResponse   `json:"choices"`
}

type StudentQuestionResponse struct {
	ID      uint                    `json:"id"`
	QuizID  uint                    `json:"quiz"`
	Text    string                  `json:"text"`
	Type    model.QuestionType      `json:"qtype"`
	Points  int                     `json:"points"`
	Order   int                     `json:"order"`
	Choices []StudentChoiceResponse `json:"choices"`
}

type QuizResponse struct {
	ID               uint               `json:"id"`
	CreatorID        uint               `json:"creator"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	TimeLimitSeconds *int               `json:"time_limit_seconds"`
	ShuffleQuestions bool               `json:"shuffle_questions"`
	CreatedAt        time.Time          `json:"created_at"`
	Questions        []QuestionResponse `json:"questions"`
}

type StudentQuizResponse struct {
	ID               uint                      `json:"id"`
	CreatorID        uint                      `json:"creator"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description"`
	TimeLimitSeconds *int                      `json:"time_limit_seconds"`
	ShuffleQuestions bool                      `json:"shuffle_questions"`
	CreatedAt        time.Time                 `json:"created_at"`
	Questions        []StudentQuestionResponse `json:"questions"`
}

type AssignResponse struct {
	CreatedAssignments []uint `json:"created_assignments"`
}

type AssignmentResponse struct {
	ID             uint       `json:"id"`
	QuizID         uint       `json:"quiz"`
	StudentID      uint       `json:"student"`
	StudentName    string     `json:"student_name"`
	AssignedByID   *uint      `json:"assigned_by"`
	AssignedAt     time.Time  `json:"assigned_at"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
	IsActive       bool       `json:"is_active"`
}

// AssignedQuizResponse is one entry of a student's assigned-quiz list.
type AssignedQuizResponse struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitSeconds *int       `json:"time_limit_seconds"`
	QuestionCount    int        `json:"question_count"`
	AssignedAt       time.Time  `json:"assigned_at"`
	AvailableFrom    *time.Time `json:"available_from"`
	AvailableUntil   *time.Time `json:"available_until"`
}

type AttemptAnswerResponse struct {
	ID                 uint      `json:"id"`
	AttemptID          uint      `json:"attempt"`
	QuestionID         uint      `json:"question"`
	SelectedChoiceID   *uint     `json:"selected_choice"`
	ShortAnswerText    *string   `json:"short_answer_text"`
	IsCorrect          *bool     `json:"is_correct"`
	AnsweredAt         time.Time `json:"answered_at"`
	QuestionText       string    `json:"question_text"`
	SelectedChoiceText *string   `json:"selected_choice_text"`
	Feedback           *string   `json:"feedback"`
}

type AttemptResponse struct {
	ID               uint                    `json:"id"`
	QuizID           uint                    `json:"quiz"`
	StudentID        uint                    `json:"student"`
	StudentName      string                  `json:"student_name"`
	StartTime        time.Time               `json:"start_time"`
	FinishTime       *time.Time              `json:"finish_time"`
	Status           model.AttemptStatus     `json:"status"`
	Score            *float64                `json:"score"`
	TotalCorrect     int                     `json:"total_correct"`
	TotalWrong       int                     `json:"total_wrong"`
	TimeLimitSeconds *int                    `json:"time_limit_seconds"`
	TimeLeftSeconds  *int                    `json:"time_left_seconds"`
	Answers          []AttemptAnswerResponse `json:"answers"`
	QuizDetail       *StudentQuizResponse    `json:"quiz_detail,omitempty"`
}

type FinishAttemptResponse struct {
	Score        float64 `json:"score"`
	TotalCorrect int     `json:"total_correct"`
	TotalWrong   int     `json:"total_wrong"`
}

type QuizSummaryResponse struct {
	QuizID   uint   `json:"quiz_id"`
	Title    string `json:"title"`
	Attempts int64  `json:"attempts"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries a human-readable detail and, for validation
// failures, per-field messages keyed by JSON field name.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}
