// Package router mounts every HTTP route on a gin engine.
package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/controller"
	authctrl "github.com/lshigami/Quizdesk/internal/controller/auth"
	"github.com/lshigami/Quizdesk/internal/controller/authoring"
	studentctrl "github.com/lshigami/Quizdesk/internal/controller/student"
	teacherctrl "github.com/lshigami/Quizdesk/internal/controller/teacher"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/middleware"
)

const APIPrefix = "/api"

type Controllers struct {
	Auth      *authctrl.AuthController
	Authoring *authoring.AuthoringController
	Teacher   *teacherctrl.TeacherController
	Student   *studentctrl.StudentController
}

// Register mounts the API under /api and /healthz at the root. Every API
// path answers with and without its trailing slash.
func Register(engine *gin.Engine, tokens *auth.TokenService, ctrls Controllers) {
	controller.RegisterValidation()
	engine.RedirectTrailingSlash = false

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})

	api := engine.Group(APIPrefix)

	public := api.Group("/auth")
	handle(public, http.MethodPost, "/register", ctrls.Auth.Register)
	handle(public, http.MethodPost, "/login", ctrls.Auth.Login)
	handle(public, http.MethodPost, "/refresh", ctrls.Auth.Refresh)

	authed := api.Group("", middleware.Authenticate(tokens))
	teacher := middleware.RequireTeacher()
	student := middleware.RequireStudent()

	// Authoring: reads serve both roles. PUT replaces, PATCH changes only the fields sent.
	a := ctrls.Authoring
	handle(authed, http.MethodGet, "/quizzes", a.ListQuizzes)
	handle(authed, http.MethodPost, "/quizzes", teacher, a.CreateQuiz)
	handle(authed, http.MethodGet, "/quizzes/:id", a.GetQuiz)
	handle(authed, http.MethodPut, "/quizzes/:id", teacher, a.ReplaceQuiz)
	handle(authed, http.MethodPatch, "/quizzes/:id", teacher, a.UpdateQuiz)
	handle(authed, http.MethodDelete, "/quizzes/:id", teacher, a.DeleteQuiz)

	handle(authed, http.MethodGet, "/questions", a.ListQuestions)
	handle(authed, http.MethodPost, "/questions", teacher, a.CreateQuestion)
	handle(authed, http.MethodGet, "/questions/:id", a.GetQuestion)
	handle(authed, http.MethodPut, "/questions/:id", teacher, a.ReplaceQuestion)
	handle(authed, http.MethodPatch, "/questions/:id", teacher, a.UpdateQuestion)
	handle(authed, http.MethodDelete, "/questions/:id", teacher, a.DeleteQuestion)

	handle(authed, http.MethodGet, "/choices", teacher, a.ListChoices)
	handle(authed, http.MethodPost, "/choices", teacher, a.CreateChoice)
	handle(authed, http.MethodGet, "/choices/:id", teacher, a.GetChoice)
	handle(authed, http.MethodPut, "/choices/:id", teacher, a.ReplaceChoice)
	handle(authed, http.MethodPatch, "/choices/:id", teacher, a.UpdateChoice)
	handle(authed, http.MethodDelete, "/choices/:id", teacher, a.DeleteChoice)

	t := ctrls.Teacher
	handle(authed, http.MethodPost, "/quizzes/:id/assign", teacher, t.Assign)
	handle(authed, http.MethodGet, "/quizzes/:id/assignments", teacher, t.ListAssignments)
	handle(authed, http.MethodPatch, "/assignments/:id", teacher, t.UpdateAssignment)
	handle(authed, http.MethodDelete, "/assignments/:id", teacher, t.RevokeAssignment)
	handle(authed, http.MethodGet, "/teacher/quizzes/summary", teacher, t.Summary)
	handle(authed, http.MethodGet, "/teacher/quizzes/:id/attempts", teacher, t.QuizAttempts)
	handle(authed, http.MethodPost, "/teacher/attempts/:id/feedback", teacher, t.DraftFeedback)

	s := ctrls.Student
	handle(authed, http.MethodGet, "/student/quizzes/assigned", student, s.AssignedQuizzes)
	handle(authed, http.MethodPost, "/quizzes/:id/start", student, s.Start)
	handle(authed, http.MethodGet, "/attempts/:id", student, s.GetAttempt)
	handle(authed, http.MethodPost, "/attempts/:id/answer", student, s.SubmitAnswer)
	handle(authed, http.MethodPost, "/attempts/:id/finish", student, s.Finish)
	handle(authed, http.MethodGet, "/attempts/:id/review", student, s.Review)
}

func handle(g *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	path = strings.TrimSuffix(path, "/")
	g.Handle(method, path, handlers...)
	g.Handle(method, path+"/", handlers...)
}
