package student

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quizdesk/internal/controller"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/middleware"
	"github.com/lshigami/Quizdesk/internal/service"
)

type StudentController struct {
	assignmentService service.AssignmentService
	attemptService    service.AttemptService
	reportService     service.ReportService
}

func NewStudentController(
	assignmentService service.AssignmentService,
	attemptService service.AttemptService,
	reportService service.ReportService,
) *StudentController {
	return &StudentController{
		assignmentService: assignmentService,
		attemptService:    attemptService,
		reportService:     reportService,
	}
}

// AssignedQuizzes godoc
// @Summary (Student) Quizzes assigned to me
// @Description Active assignments only, newest first.
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AssignedQuizResponse
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Router /student/quizzes/assigned/ [get]
func (sc *StudentController) AssignedQuizzes(c *gin.Context) {
	quizzes, err := sc.assignmentService.AssignedQuizzes(c.Request.Context(), middleware.Student(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// Start godoc
// @Summary (Student) Start an attempt
// @Description Opens a new attempt on an assigned quiz. Each call creates a fresh attempt.
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 201 {object} dto.AttemptResponse
// @Failure 403 {object} dto.ErrorResponse "Not assigned or outside the availability window"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id}/start/ [post]
func (sc *StudentController) Start(c *gin.Context) {
	quizID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	attempt, err := sc.attemptService.Start(c.Request.Context(), middleware.Student(c), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// GetAttempt godoc
// @Summary (Student) Get one of my attempts
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{id}/ [get]
func (sc *StudentController) GetAttempt(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	attempt, err := sc.attemptService.Get(c.Request.Context(), middleware.Student(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// SubmitAnswer godoc
// @Summary (Student) Answer a question
// @Description Records or replaces the answer to one question. The last submission before finishing counts.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Param answer body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.AttemptAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Attempt finished, time up or invalid question"
// @Failure 404 {object} dto.ErrorResponse "Attempt or choice not found"
// @Router /attempts/{id}/answer/ [post]
func (sc *StudentController) SubmitAnswer(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	answer, err := sc.attemptService.SubmitAnswer(c.Request.Context(), middleware.Student(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Finish godoc
// @Summary (Student) Finish an attempt
// @Description Grades the attempt and locks it. A second call is rejected.
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.FinishAttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Already finished"
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{id}/finish/ [post]
func (sc *StudentController) Finish(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	result, err := sc.attemptService.Finish(c.Request.Context(), middleware.Student(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Review godoc
// @Summary (Student) Review wrong answers
// @Tags Student - Attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Success 200 {array} dto.AttemptAnswerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{id}/review/ [get]
func (sc *StudentController) Review(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	answers, err := sc.reportService.ReviewWrongAnswers(c.Request.Context(), middleware.Student(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}
