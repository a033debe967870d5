package service

import (
	"sort"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/rs/zerolog/log"
)

func toUserResponse(u *model.User) dto.UserResponse {
	var resp dto.UserResponse
	if err := copier.Copy(&resp, u); err != nil {
		log.Error().Err(err).Uint("userID", u.ID).Msg("Failed to map user")
	}
	return resp
}

func toChoiceResponse(c *model.Choice) dto.ChoiceResponse {
	var resp dto.ChoiceResponse
	if err := copier.Copy(&resp, c); err != nil {
		log.Error().Err(err).Uint("choiceID", c.ID).Msg("Failed to map choice")
	}
	return resp
}

func toQuestionResponse(q *model.Question) dto.QuestionResponse {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, q); err != nil {
		log.Error().Err(err).Uint("questionID", q.ID).Msg("Failed to map question")
	}
	if resp.Choices == nil {
		resp.Choices = []dto.ChoiceResponse{}
	}
	return resp
}

func toStudentQuestionResponse(q *model.Question) dto.StudentQuestionResponse {
	var resp dto.StudentQuestionResponse
	if err := copier.Copy(&resp, q); err != nil {
		log.Error().Err(err).Uint("questionID", q.ID).Msg("Failed to map question")
	}
	if resp.Choices == nil {
		resp.Choices = []dto.StudentChoiceResponse{}
	}
	return resp
}

func toQuizResponse(q *model.Quiz) dto.QuizResponse {
	resp := dto.QuizResponse{
		ID:               q.ID,
		CreatorID:        q.CreatorID,
		Title:            q.Title,
		Description:      q.Description,
		TimeLimitSeconds: q.TimeLimitSeconds,
		ShuffleQuestions: q.ShuffleQuestions,
		CreatedAt:        q.CreatedAt,
		Questions:        make([]dto.QuestionResponse, 0, len(q.Questions)),
	}
	for i := range q.Questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&q.Questions[i]))
	}
	return resp
}

// toStudentQuizResponse hides correctness and reference answers. When order
// is non-empty the questions follow it; ids missing from order keep their
// display position after the ordered ones.
func toStudentQuizResponse(q *model.Quiz, order []uint) dto.StudentQuizResponse {
	resp := dto.StudentQuizResponse{
		ID:               q.ID,
		CreatorID:        q.CreatorID,
		Title:            q.Title,
		Description:      q.Description,
		TimeLimitSeconds: q.TimeLimitSeconds,
		ShuffleQuestions: q.ShuffleQuestions,
		CreatedAt:        q.CreatedAt,
		Questions:        make([]dto.StudentQuestionResponse, 0, len(q.Questions)),
	}
	questions := orderQuestions(q.Questions, order)
	for i := range questions {
		resp.Questions = append(resp.Questions, toStudentQuestionResponse(&questions[i]))
	}
	return resp
}

func orderQuestions(questions []model.Question, order []uint) []model.Question {
	out := make([]model.Question, len(questions))
	copy(out, questions)
	if len(order) == 0 {
		return out
	}
	rank := make(map[uint]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	pos := func(q model.Question) int {
		if r, ok := rank[q.ID]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(out, func(i, j int) bool { return pos(out[i]) < pos(out[j]) })
	return out
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	var resp dto.AssignmentResponse
	if err := copier.Copy(&resp, a); err != nil {
		log.Error().Err(err).Uint("assignmentID", a.ID).Msg("Failed to map assignment")
	}
	resp.StudentName = a.Student.Username
	return resp
}

func toAnswerResponse(a *model.AttemptAnswer) dto.AttemptAnswerResponse {
	resp := dto.AttemptAnswerResponse{
		ID:               a.ID,
		AttemptID:        a.AttemptID,
		QuestionID:       a.QuestionID,
		SelectedChoiceID: a.SelectedChoiceID,
		ShortAnswerText:  a.ShortAnswerText,
		IsCorrect:        a.IsCorrect,
		AnsweredAt:       a.AnsweredAt,
		QuestionText:     a.Question.Text,
		Feedback:         a.Feedback,
	}
	if a.SelectedChoice != nil {
		text := a.SelectedChoice.Text
		resp.SelectedChoiceText = &text
	}
	return resp
}

func toAnswerResponses(answers []model.AttemptAnswer) []dto.AttemptAnswerResponse {
	out := make([]dto.AttemptAnswerResponse, 0, len(answers))
	for i := range answers {
		out = append(out, toAnswerResponse(&answers[i]))
	}
	return out
}

func toAttemptResponse(a *model.Attempt, now time.Time) dto.AttemptResponse {
	resp := dto.AttemptResponse{
		ID:               a.ID,
		QuizID:           a.QuizID,
		StudentID:        a.StudentID,
		StudentName:      a.Student.Username,
		StartTime:        a.StartTime,
		FinishTime:       a.FinishTime,
		Status:           a.Status,
		Score:            a.Score,
		TotalCorrect:     a.TotalCorrect,
		TotalWrong:       a.TotalWrong,
		TimeLimitSeconds: a.TimeLimitSeconds,
		Answers:          toAnswerResponses(a.Answers),
	}
	if left, limited := a.TimeLeftSeconds(now); limited && !a.IsFinished() {
		resp.TimeLeftSeconds = &left
	}
	return resp
}
