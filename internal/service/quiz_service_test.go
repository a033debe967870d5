package service

import (
	"testing"

	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
)

func TestCreateQuizValidatesInlineQuestions(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")

	req := dto.CreateQuizRequest{
		Title: "Broken",
		Questions: []dto.QuestionInput{
			{Text: "Explain osmosis.", Type: model.QuestionShort, Choices: []dto.ChoiceInput{{Text: "Water", IsCorrect: true}}},
			{Text: "Sky is blue.", Type: model.QuestionTF, Choices: []dto.ChoiceInput{
				{Text: "True", IsCorrect: true}, {Text: "False"}, {Text: "Maybe"},
			}},
			{Text: "Pick one.", Type: model.QuestionMCQ, Choices: []dto.ChoiceInput{{Text: "A"}, {Text: "B"}}},
			{Text: "No choices yet.", Type: model.QuestionMCQ},
		},
	}
	_, err := f.quizzes.Create(f.ctx, teacher, req)
	e := wantKind(t, err, KindValidation)
	for _, key := range []string{"questions[0].choices", "questions[1].choices", "questions[2].choices"} {
		if e.Fields[key] == "" {
			t.Errorf("missing error for %s in %v", key, e.Fields)
		}
	}
	if _, ok := e.Fields["questions[3].choices"]; ok {
		t.Errorf("question without choices was rejected: %v", e.Fields)
	}

	quizzes, err := f.quizzes.ListForTeacher(f.ctx, teacher)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 0 {
		t.Errorf("invalid quiz was stored")
	}
}

func TestCreateQuizDefaultsAndOrdering(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")

	req := dto.CreateQuizRequest{
		Title:            "Order",
		TimeLimitSeconds: intPtr(0),
		Questions: []dto.QuestionInput{
			{Text: "second", Type: model.QuestionShort, Order: 2},
			{Text: "first", Type: model.QuestionMCQ, Order: 1, Choices: []dto.ChoiceInput{
				{Text: "b", Order: 2}, {Text: "a", IsCorrect: true, Order: 1},
			}},
		},
	}
	quiz := f.quiz(t, teacher, req)

	if quiz.TimeLimitSeconds != nil {
		t.Errorf("time limit 0 stored as %d, want none", *quiz.TimeLimitSeconds)
	}
	if quiz.CreatorID != uint(teacher.ID) {
		t.Errorf("creator = %d", quiz.CreatorID)
	}
	if len(quiz.Questions) != 2 || quiz.Questions[0].Text != "first" || quiz.Questions[1].Text != "second" {
		t.Fatalf("questions not ordered: %+v", quiz.Questions)
	}
	if quiz.Questions[1].Points != 1 {
		t.Errorf("default points = %d, want 1", quiz.Questions[1].Points)
	}
	if quiz.Questions[1].Choices == nil {
		t.Error("choices should render as an empty list")
	}
	if c := quiz.Questions[0].Choices; c[0].Text != "a" || c[1].Text != "b" {
		t.Errorf("choices not ordered: %+v", c)
	}
}

func TestQuizVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.teacher(t, "ms_frizzle")
	rival := f.teacher(t, "mr_ruhle")
	arnold := f.student(t, "arnold")
	wanda := f.student(t, "wanda")
	quiz := f.quiz(t, owner, sampleQuizRequest(nil))
	f.assign(t, owner, quiz.ID, arnold)

	_, err := f.quizzes.GetForTeacher(f.ctx, rival, quiz.ID)
	wantKind(t, err, KindNotFound)
	_, err = f.quizzes.Update(f.ctx, rival, quiz.ID, dto.UpdateQuizRequest{})
	wantKind(t, err, KindNotFound)
	err = f.quizzes.Delete(f.ctx, rival, quiz.ID)
	wantKind(t, err, KindNotFound)

	view, err := f.quizzes.GetForStudent(f.ctx, arnold, quiz.ID)
	if err != nil {
		t.Fatalf("student view: %v", err)
	}
	if len(view.Questions) != 3 || len(view.Questions[0].Choices) != 2 {
		t.Fatalf("student view = %+v", view)
	}
	_, err = f.quizzes.GetForStudent(f.ctx, wanda, quiz.ID)
	wantKind(t, err, KindNotFound)

	list, err := f.quizzes.ListForStudent(f.ctx, wanda)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("unassigned student sees %d quizzes", len(list))
	}
	list, err = f.quizzes.ListForStudent(f.ctx, arnold)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != quiz.ID {
		t.Errorf("assigned student sees %+v", list)
	}

	questions, err := f.questions.ListForStudent(f.ctx, arnold, nil)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("student questions = %d, want 3", len(questions))
	}
	_, err = f.questions.GetForStudent(f.ctx, wanda, quiz.Questions[0].ID)
	wantKind(t, err, KindNotFound)
}

func TestUpdateAndDeleteQuiz(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	student := f.student(t, "arnold")
	quiz := f.quiz(t, teacher, sampleQuizRequest(intPtr(120)))
	f.assign(t, teacher, quiz.ID, student)
	f.start(t, student, quiz.ID)

	title := "Cells, revised"
	shuffle := true
	updated, err := f.quizzes.Update(f.ctx, teacher, quiz.ID, dto.UpdateQuizRequest{
		Title:            &title,
		ShuffleQuestions: &shuffle,
		TimeLimitSeconds: intPtr(0),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || !updated.ShuffleQuestions || updated.TimeLimitSeconds != nil {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Questions) != 3 {
		t.Errorf("update dropped questions: %d", len(updated.Questions))
	}

	if err := f.quizzes.Delete(f.ctx, teacher, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = f.quizzes.GetForTeacher(f.ctx, teacher, quiz.ID)
	wantKind(t, err, KindNotFound)
	assigned, err := f.assignments.AssignedQuizzes(f.ctx, student)
	if err != nil {
		t.Fatalf("assigned: %v", err)
	}
	if len(assigned) != 0 {
		t.Errorf("deleted quiz still assigned: %+v", assigned)
	}
}

func TestQuestionAndChoiceAuthoring(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher(t, "ms_frizzle")
	rival := f.teacher(t, "mr_ruhle")
	quiz := f.quiz(t, teacher, dto.CreateQuizRequest{Title: "Empty"})

	q, err := f.questions.Create(f.ctx, teacher, dto.CreateQuestionRequest{
		QuizID:        quiz.ID,
		QuestionInput: dto.QuestionInput{Text: "Is water wet?", Type: model.QuestionTF},
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	_, err = f.questions.Create(f.ctx, rival, dto.CreateQuestionRequest{
		QuizID:        quiz.ID,
		QuestionInput: dto.QuestionInput{Text: "Hijack", Type: model.QuestionMCQ},
	})
	wantKind(t, err, KindNotFound)

	for _, text := range []string{"Yes", "No"} {
		if _, err := f.choices.Create(f.ctx, teacher, dto.CreateChoiceRequest{
			QuestionID:  q.ID,
			ChoiceInput: dto.ChoiceInput{Text: text, IsCorrect: text == "Yes"},
		}); err != nil {
			t.Fatalf("create choice %s: %v", text, err)
		}
	}
	_, err = f.choices.Create(f.ctx, teacher, dto.CreateChoiceRequest{QuestionID: q.ID, ChoiceInput: dto.ChoiceInput{Text: "Sometimes"}})
	wantKind(t, err, KindValidation)

	short := model.QuestionShort
	_, err = f.questions.Update(f.ctx, teacher, q.ID, dto.UpdateQuestionRequest{Type: &short})
	if e := wantKind(t, err, KindValidation); e.Fields["qtype"] == "" {
		t.Errorf("fields = %v", e.Fields)
	}

	choices, err := f.choices.List(f.ctx, teacher, q.ID)
	if err != nil {
		t.Fatalf("list choices: %v", err)
	}
	if len(choices) != 2 {
		t.Fatalf("choices = %d, want 2", len(choices))
	}
	_, err = f.choices.List(f.ctx, rival, q.ID)
	wantKind(t, err, KindNotFound)

	for _, c := range choices {
		if err := f.choices.Delete(f.ctx, teacher, c.ID); err != nil {
			t.Fatalf("delete choice: %v", err)
		}
	}
	points := 4
	updated, err := f.questions.Update(f.ctx, teacher, q.ID, dto.UpdateQuestionRequest{Type: &short, Points: &points})
	if err != nil {
		t.Fatalf("update question: %v", err)
	}
	if updated.Type != model.QuestionShort || updated.Points != 4 {
		t.Errorf("updated = %+v", updated)
	}
	_, err = f.choices.Create(f.ctx, teacher, dto.CreateChoiceRequest{QuestionID: q.ID, ChoiceInput: dto.ChoiceInput{Text: "Nope"}})
	wantKind(t, err, KindValidation)

	quizID := quiz.ID
	listed, err := f.questions.ListForTeacher(f.ctx, teacher, &quizID)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != q.ID {
		t.Errorf("listed = %+v", listed)
	}
	if err := f.questions.Delete(f.ctx, teacher, q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	_, err = f.questions.GetForTeacher(f.ctx, teacher, q.ID)
	wantKind(t, err, KindNotFound)
}
