package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
)

func TestReviewWrongAnswers(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)

	qs := quiz.Questions
	f.answer(t, student, attempt.ID, qs[2].ID, choiceID(t, qs[2], false))
	f.answer(t, student, attempt.ID, qs[1].ID, choiceID(t, qs[1], true))
	f.answer(t, student, attempt.ID, qs[0].ID, choiceID(t, qs[0], false))
	if _, err := f.attempts.Finish(f.ctx, student, attempt.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	wrong, err := f.reports.ReviewWrongAnswers(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(wrong) != 2 {
		t.Fatalf("wrong answers = %d, want 2", len(wrong))
	}
	if wrong[0].QuestionID != qs[0].ID || wrong[1].QuestionID != qs[2].ID {
		t.Errorf("review order = [%d %d], want question order", wrong[0].QuestionID, wrong[1].QuestionID)
	}
	if wrong[0].QuestionText != qs[0].Text || wrong[0].SelectedChoiceText == nil || *wrong[0].SelectedChoiceText != "Ribosome" {
		t.Errorf("review entry = %+v", wrong[0])
	}

	other := f.student(t, "wanda")
	_, err = f.reports.ReviewWrongAnswers(f.ctx, other, attempt.ID)
	wantKind(t, err, KindNotFound)
}

func TestTeacherSummaryAndAttempts(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	rival := f.teacher(t, "mr_ruhle")
	arnold := f.student(t, "arnold")
	wanda := f.student(t, "wanda")

	busy := f.quiz(t, teacher, sampleQuizRequest(nil))
	idleReq := sampleQuizRequest(nil)
	idleReq.Title = "Weather"
	idle := f.quiz(t, teacher, idleReq)
	f.quiz(t, rival, sampleQuizRequest(nil))

	f.assign(t, teacher, busy.ID, arnold, wanda)
	f.start(t, arnold, busy.ID)
	f.start(t, arnold, busy.ID)
	wandaAttempt := f.start(t, wanda, busy.ID)
	f.answer(t, wanda, wandaAttempt.ID, busy.Questions[0].ID, choiceID(t, busy.Questions[0], true))

	summary, err := f.reports.TeacherSummary(f.ctx, teacher)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("summary = %+v, want two quizzes", summary)
	}
	counts := map[uint]int64{}
	for _, s := range summary {
		counts[s.QuizID] = s.Attempts
	}
	if counts[busy.ID] != 3 || counts[idle.ID] != 0 {
		t.Errorf("attempt counts = %v", counts)
	}

	attempts, err := f.reports.TeacherQuizAttempts(f.ctx, teacher, busy.ID)
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(attempts))
	}
	var found bool
	for _, a := range attempts {
		if a.ID == wandaAttempt.ID {
			found = true
			if a.StudentName != "wanda" || len(a.Answers) != 1 {
				t.Errorf("wanda's attempt = %+v", a)
			}
		}
	}
	if !found {
		t.Error("wanda's attempt missing from report")
	}

	_, err = f.reports.TeacherQuizAttempts(f.ctx, rival, busy.ID)
	wantKind(t, err, KindNotFound)
}

type stubDrafter struct {
	enabled bool
	draft   *Draft
	err     error
	calls   int
}

func (d *stubDrafter) Enabled() bool { return d.enabled }

func (d *stubDrafter) DraftFeedback(_ context.Context, _ *model.Question, _ string) (*Draft, error) {
	d.calls++
	return d.draft, d.err
}

func shortAnswerQuiz() dto.CreateQuizRequest {
	ref := "Light energy becomes chemical energy."
	return dto.CreateQuizRequest{
		Title: "Photosynthesis",
		Questions: []dto.QuestionInput{
			{Text: "What does photosynthesis do?", Type: model.QuestionShort, Points: 3, Order: 1, ReferenceAnswer: &ref},
			{Text: "Leaves are green.", Type: model.QuestionTF, Order: 2, Choices: []dto.ChoiceInput{
				{Text: "True", IsCorrect: true},
				{Text: "False"},
			}},
		},
	}
}

func TestDraftFeedbackForShortAnswers(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	rival := f.teacher(t, "mr_ruhle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, shortAnswerQuiz())
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)

	text := "It turns sunlight into sugar."
	short := quiz.Questions[0]
	if _, err := f.attempts.SubmitAnswer(f.ctx, student, attempt.ID, dto.SubmitAnswerRequest{QuestionID: &short.ID, ShortAnswerText: &text}); err != nil {
		t.Fatalf("short answer: %v", err)
	}
	tf := quiz.Questions[1]
	f.answer(t, student, attempt.ID, tf.ID, choiceID(t, tf, true))

	drafter := &stubDrafter{enabled: true, draft: &Draft{SuggestedPoints: 2.5, Feedback: "Mention chlorophyll."}}
	svc := NewFeedbackService(f.attemptRepo, f.answerRepo, f.quizRepo, drafter)

	_, err := svc.DraftForAttempt(f.ctx, teacher, attempt.ID, dto.DraftFeedbackRequest{})
	wantErr(t, err, ErrAttemptInProgress)

	res, err := f.attempts.Finish(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	// 1 of 4 points: the short answer adds to the total but is never graded.
	if res.Score != 25 || res.TotalCorrect != 1 || res.TotalWrong != 0 {
		t.Fatalf("finish = %+v", res)
	}

	_, err = svc.DraftForAttempt(f.ctx, rival, attempt.ID, dto.DraftFeedbackRequest{})
	wantKind(t, err, KindNotFound)

	disabled := NewFeedbackService(f.attemptRepo, f.answerRepo, f.quizRepo, &stubDrafter{})
	_, err = disabled.DraftForAttempt(f.ctx, teacher, attempt.ID, dto.DraftFeedbackRequest{})
	wantErr(t, err, ErrFeedbackDisabled)

	drafted, err := svc.DraftForAttempt(f.ctx, teacher, attempt.ID, dto.DraftFeedbackRequest{})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if len(drafted) != 1 || drafter.calls != 1 {
		t.Fatalf("drafted %d answers with %d calls, want 1 and 1", len(drafted), drafter.calls)
	}
	if drafted[0].Feedback == nil || !strings.HasPrefix(*drafted[0].Feedback, "Suggested score: 2.5/3\n") {
		t.Errorf("feedback = %v", drafted[0].Feedback)
	}
	if drafted[0].IsCorrect != nil {
		t.Errorf("drafting set is_correct = %v", *drafted[0].IsCorrect)
	}

	stored, err := f.answerRepo.FindByAttemptAndQuestion(f.ctx, attempt.ID, short.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Feedback == nil || *stored.Feedback != *drafted[0].Feedback {
		t.Errorf("stored feedback = %v", stored.Feedback)
	}

	onlyTF := tf.ID
	drafted, err = svc.DraftForAttempt(f.ctx, teacher, attempt.ID, dto.DraftFeedbackRequest{QuestionID: &onlyTF})
	if err != nil || len(drafted) != 0 {
		t.Errorf("filtered draft = %v, %v; want none", drafted, err)
	}

	failing := NewFeedbackService(f.attemptRepo, f.answerRepo, f.quizRepo, &stubDrafter{enabled: true, err: errors.New("quota exceeded")})
	if _, err := failing.DraftForAttempt(f.ctx, teacher, attempt.ID, dto.DraftFeedbackRequest{}); err == nil {
		t.Error("expected an error when every draft fails")
	} else if _, ok := AsError(err); ok {
		t.Errorf("drafting failure should be internal, got %v", err)
	}
}
