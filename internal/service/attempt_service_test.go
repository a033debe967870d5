package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/lshigami/Quizdesk/internal/repository"
	"gorm.io/gorm"
)

func TestStartRequiresActiveAssignment(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))

	_, err := f.attempts.Start(f.ctx, student, quiz.ID)
	wantErr(t, err, ErrNotAssigned)
	wantKind(t, err, KindForbidden)

	_, err = f.attempts.Start(f.ctx, student, quiz.ID+100)
	wantKind(t, err, KindNotFound)

	ids := f.assign(t, teacher, quiz.ID, student)
	off := false
	if _, err := f.assignments.Update(f.ctx, teacher, ids[0], dto.UpdateAssignmentRequest{IsActive: &off}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err = f.attempts.Start(f.ctx, student, quiz.ID)
	wantErr(t, err, ErrNotAssigned)
}

func TestStartHonoursAvailabilityWindow(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	ids := f.assign(t, teacher, quiz.ID, student)

	from := testStart.Add(time.Hour)
	until := testStart.Add(2 * time.Hour)
	if _, err := f.assignments.Update(f.ctx, teacher, ids[0], dto.UpdateAssignmentRequest{
		AvailableFrom:  &from,
		AvailableUntil: &until,
	}); err != nil {
		t.Fatalf("set window: %v", err)
	}

	_, err := f.attempts.Start(f.ctx, student, quiz.ID)
	wantErr(t, err, ErrNotAvailable)

	f.clock.Advance(90 * time.Minute)
	f.start(t, student, quiz.ID)

	f.clock.Advance(time.Hour)
	_, err = f.attempts.Start(f.ctx, student, quiz.ID)
	wantErr(t, err, ErrNotAvailable)
}

func TestStartCapturesTimeLimit(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(intPtr(60)))
	f.assign(t, teacher, quiz.ID, student)

	attempt := f.start(t, student, quiz.ID)
	if attempt.Status != model.AttemptInProgress {
		t.Errorf("status = %q, want in_progress", attempt.Status)
	}
	if attempt.TimeLeftSeconds == nil || *attempt.TimeLeftSeconds != 60 {
		t.Errorf("time_left_seconds = %v, want 60", attempt.TimeLeftSeconds)
	}
	if attempt.QuizDetail == nil || len(attempt.QuizDetail.Questions) != 3 {
		t.Fatalf("quiz detail missing or incomplete: %+v", attempt.QuizDetail)
	}

	// Later edits to the quiz do not move the deadline of a running attempt.
	if _, err := f.quizzes.Update(f.ctx, teacher, quiz.ID, dto.UpdateQuizRequest{TimeLimitSeconds: intPtr(0)}); err != nil {
		t.Fatalf("update quiz: %v", err)
	}
	f.clock.Advance(20 * time.Second)
	got, err := f.attempts.Get(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if got.TimeLeftSeconds == nil || *got.TimeLeftSeconds != 40 {
		t.Errorf("time_left_seconds = %v, want 40", got.TimeLeftSeconds)
	}
}

func TestSubmitAnswerRespectsDeadline(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(intPtr(60)))
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)
	q := quiz.Questions[0]

	f.clock.Advance(59 * time.Second)
	f.answer(t, student, attempt.ID, q.ID, choiceID(t, q, true))

	f.clock.Advance(2 * time.Second)
	choice := choiceID(t, q, false)
	_, err := f.attempts.SubmitAnswer(f.ctx, student, attempt.ID, dto.SubmitAnswerRequest{QuestionID: &q.ID, SelectedChoiceID: &choice})
	wantErr(t, err, ErrTimeUp)

	// The rejected submission left the earlier answer untouched.
	saved, err := f.answerRepo.FindByAttemptAndQuestion(f.ctx, attempt.ID, q.ID)
	if err != nil {
		t.Fatalf("load answer: %v", err)
	}
	if saved.SelectedChoiceID == nil || *saved.SelectedChoiceID != choiceID(t, q, true) {
		t.Errorf("selected choice = %v, want the correct choice", saved.SelectedChoiceID)
	}
}

func TestSubmitAnswerLastWriteWins(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)
	q := quiz.Questions[0]

	first := f.answer(t, student, attempt.ID, q.ID, choiceID(t, q, false))
	if first.IsCorrect == nil || *first.IsCorrect {
		t.Fatalf("first answer is_correct = %v, want false", first.IsCorrect)
	}
	f.clock.Advance(time.Second)
	second := f.answer(t, student, attempt.ID, q.ID, choiceID(t, q, true))
	if second.ID != first.ID {
		t.Errorf("answer id changed from %d to %d, want the same row", first.ID, second.ID)
	}
	if second.IsCorrect == nil || !*second.IsCorrect {
		t.Errorf("second answer is_correct = %v, want true", second.IsCorrect)
	}

	rows, err := f.answerRepo.FindByAttemptID(f.ctx, attempt.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d answers, want 1", len(rows))
	}
}

func TestSubmitAnswerRejectsForeignReferences(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	other := f.student(t, "wanda")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	otherQuiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)

	q0, q1 := quiz.Questions[0], quiz.Questions[1]
	foreignChoice := choiceID(t, q1, true)
	_, err := f.attempts.SubmitAnswer(f.ctx, student, attempt.ID, dto.SubmitAnswerRequest{QuestionID: &q0.ID, SelectedChoiceID: &foreignChoice})
	if e := wantKind(t, err, KindNotFound); e.Message != "Choice not found" {
		t.Errorf("message = %q", e.Message)
	}

	foreignQuestion := otherQuiz.Questions[0].ID
	_, err = f.attempts.SubmitAnswer(f.ctx, student, attempt.ID, dto.SubmitAnswerRequest{QuestionID: &foreignQuestion})
	wantKind(t, err, KindNotFound)

	_, err = f.attempts.SubmitAnswer(f.ctx, student, attempt.ID, dto.SubmitAnswerRequest{})
	if e := wantKind(t, err, KindValidation); e.Fields["question"] == "" {
		t.Errorf("fields = %v, want a question error", e.Fields)
	}

	// Another student cannot see or answer the attempt.
	choice := choiceID(t, q0, true)
	_, err = f.attempts.SubmitAnswer(f.ctx, other, attempt.ID, dto.SubmitAnswerRequest{QuestionID: &q0.ID, SelectedChoiceID: &choice})
	wantKind(t, err, KindNotFound)
	_, err = f.attempts.Get(f.ctx, other, attempt.ID)
	wantKind(t, err, KindNotFound)
}

func TestFinishScoresAndLocksAttempt(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)

	qs := quiz.Questions
	f.answer(t, student, attempt.ID, qs[0].ID, choiceID(t, qs[0], true))
	f.answer(t, student, attempt.ID, qs[1].ID, choiceID(t, qs[1], true))
	f.answer(t, student, attempt.ID, qs[2].ID, choiceID(t, qs[2], false))

	f.clock.Advance(5 * time.Minute)
	res, err := f.attempts.Finish(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if res.Score != 75 || res.TotalCorrect != 2 || res.TotalWrong != 1 {
		t.Fatalf("finish = %+v, want 75/2/1", res)
	}

	stored, err := f.attemptRepo.FindByIDWithDetails(f.ctx, attempt.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.IsFinished() || stored.FinishTime == nil || stored.Score == nil || *stored.Score != 75 {
		t.Fatalf("stored attempt = %+v", stored)
	}
	if !stored.FinishTime.Equal(testStart.Add(5 * time.Minute)) {
		t.Errorf("finish_time = %v", stored.FinishTime)
	}

	f.clock.Advance(time.Minute)
	_, err = f.attempts.Finish(f.ctx, student, attempt.ID)
	wantErr(t, err, ErrAlreadyFinished)

	again, err := f.attemptRepo.FindByIDWithDetails(f.ctx, attempt.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *again.Score != 75 || again.TotalCorrect != 2 || again.TotalWrong != 1 || !again.FinishTime.Equal(*stored.FinishTime) {
		t.Errorf("second finish changed the attempt: %+v", again)
	}

	_, err = f.attempts.SubmitAnswer(f.ctx, student, attempt.ID, dto.SubmitAnswerRequest{QuestionID: &qs[2].ID})
	wantErr(t, err, ErrAttemptFinished)

	got, err := f.attempts.Get(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TimeLeftSeconds != nil {
		t.Errorf("finished attempt reports time_left_seconds = %d", *got.TimeLeftSeconds)
	}
	if len(got.Answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(got.Answers))
	}
}

func TestFinishWithUnansweredQuestions(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)

	res, err := f.attempts.Finish(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if res.Score != 0 || res.TotalCorrect != 0 || res.TotalWrong != 0 {
		t.Errorf("finish = %+v, want all zero", res)
	}
}

func TestStartShufflesQuestionOrder(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	req := sampleQuizRequest(nil)
	req.ShuffleQuestions = true
	quiz := f.quiz(t, teacher, req)
	f.assign(t, teacher, quiz.ID, student)

	f.attempts.shuffle = func(ids []uint) {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	attempt := f.start(t, student, quiz.ID)

	var got []uint
	for _, q := range attempt.QuizDetail.Questions {
		got = append(got, q.ID)
	}
	want := []uint{quiz.Questions[2].ID, quiz.Questions[1].ID, quiz.Questions[0].ID}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	// The captured order survives a reload and drives answer order too.
	qs := quiz.Questions
	f.answer(t, student, attempt.ID, qs[0].ID, choiceID(t, qs[0], true))
	f.answer(t, student, attempt.ID, qs[2].ID, choiceID(t, qs[2], true))
	reloaded, err := f.attempts.Get(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.QuizDetail.Questions[0].ID != qs[2].ID {
		t.Errorf("reloaded first question = %d, want %d", reloaded.QuizDetail.Questions[0].ID, qs[2].ID)
	}
	if reloaded.Answers[0].QuestionID != qs[2].ID || reloaded.Answers[1].QuestionID != qs[0].ID {
		t.Errorf("answers not in captured order: %+v", reloaded.Answers)
	}

	// The teacher sees the same attempt in the same order.
	attempts, err := f.reports.TeacherQuizAttempts(f.ctx, teacher, quiz.ID)
	if err != nil {
		t.Fatalf("teacher attempts: %v", err)
	}
	if len(attempts) != 1 || len(attempts[0].Answers) != 2 {
		t.Fatalf("teacher attempts = %+v", attempts)
	}
	if attempts[0].Answers[0].QuestionID != qs[2].ID || attempts[0].Answers[1].QuestionID != qs[0].ID {
		t.Errorf("teacher answer order = [%d %d], want [%d %d]",
			attempts[0].Answers[0].QuestionID, attempts[0].Answers[1].QuestionID, qs[2].ID, qs[0].ID)
	}
}

func TestDefaultShuffleIsPermutation(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	req := sampleQuizRequest(nil)
	req.ShuffleQuestions = true
	quiz := f.quiz(t, teacher, req)
	f.assign(t, teacher, quiz.ID, student)

	for i := 0; i < 5; i++ {
		attempt := f.start(t, student, quiz.ID)
		var got, want []uint
		for _, q := range attempt.QuizDetail.Questions {
			got = append(got, q.ID)
		}
		for _, q := range quiz.Questions {
			want = append(want, q.ID)
		}
		sort.Slice(got, func(a, b int) bool { return got[a] < got[b] })
		sort.Slice(want, func(a, b int) bool { return want[a] < want[b] })
		for k := range want {
			if len(got) != len(want) || got[k] != want[k] {
				t.Fatalf("attempt %d: questions %v are not a permutation of %v", i, got, want)
			}
		}
	}
}

// staleAttempts hands out a copy of the attempt read before another finish
// committed, so Finish gets past its status check and reaches MarkFinished.
type staleAttempts struct {
	repository.AttemptRepository
	snapshot model.Attempt
}

func (r staleAttempts) WithTx(tx *gorm.DB) repository.AttemptRepository {
	return staleAttempts{AttemptRepository: r.AttemptRepository.WithTx(tx), snapshot: r.snapshot}
}

func (r staleAttempts) FindByIDForStudent(_ context.Context, _, _ uint) (*model.Attempt, error) {
	a := r.snapshot
	return &a, nil
}

func TestConcurrentFinishKeepsFirstResult(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	f.assign(t, teacher, quiz.ID, student)
	attempt := f.start(t, student, quiz.ID)

	q := quiz.Questions[0]
	answer := f.answer(t, student, attempt.ID, q.ID, choiceID(t, q, true))

	snapshot, err := f.attemptRepo.FindByIDForStudent(f.ctx, attempt.ID, student.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	winner, err := f.attempts.Finish(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("first finish: %v", err)
	}
	// Mark the answer so a regrade by the losing finish would show.
	if err := f.answerRepo.SetCorrectness(f.ctx, answer.ID, false); err != nil {
		t.Fatalf("set correctness: %v", err)
	}

	loser := *f.attempts
	loser.attemptRepo = staleAttempts{AttemptRepository: f.attemptRepo, snapshot: *snapshot}
	f.clock.Advance(time.Minute)
	_, err = loser.Finish(f.ctx, student, attempt.ID)
	wantErr(t, err, ErrAlreadyFinished)

	stored, err := f.attemptRepo.FindByIDWithDetails(f.ctx, attempt.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Score == nil || *stored.Score != winner.Score || stored.TotalCorrect != winner.TotalCorrect {
		t.Errorf("stored attempt = %+v, want the first finish's result %+v", stored, winner)
	}
	if stored.FinishTime == nil || !stored.FinishTime.Equal(testStart) {
		t.Errorf("finish_time = %v, want %v", stored.FinishTime, testStart)
	}
	got, err := f.answerRepo.FindByAttemptAndQuestion(f.ctx, attempt.ID, q.ID)
	if err != nil {
		t.Fatalf("reload answer: %v", err)
	}
	if got.IsCorrect == nil || *got.IsCorrect {
		t.Errorf("losing finish rewrote is_correct = %v", got.IsCorrect)
	}
}

func TestFinishZeroPointQuiz(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")

	empty := f.quiz(t, teacher, dto.CreateQuizRequest{Title: "Empty"})
	f.assign(t, teacher, empty.ID, student)
	attempt := f.start(t, student, empty.ID)
	res, err := f.attempts.Finish(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("finish empty quiz: %v", err)
	}
	if res.Score != 0 || res.TotalCorrect != 0 || res.TotalWrong != 0 {
		t.Errorf("empty quiz finish = %+v, want all zero", res)
	}

	quiz := f.quiz(t, teacher, sampleQuizRequest(nil))
	if err := f.db.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Update("points", 0).Error; err != nil {
		t.Fatalf("zero points: %v", err)
	}
	f.assign(t, teacher, quiz.ID, student)
	attempt = f.start(t, student, quiz.ID)
	q := quiz.Questions[0]
	f.answer(t, student, attempt.ID, q.ID, choiceID(t, q, true))

	res, err = f.attempts.Finish(f.ctx, student, attempt.ID)
	if err != nil {
		t.Fatalf("finish zero-point quiz: %v", err)
	}
	if res.Score != 0 || res.TotalCorrect != 1 || res.TotalWrong != 0 {
		t.Errorf("zero-point finish = %+v, want 0/1/0", res)
	}
}
