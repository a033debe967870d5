package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quizdesk/internal/controller"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/middleware"
	"github.com/lshigami/Quizdesk/internal/service"
)

type TeacherController struct {
	assignmentService service.AssignmentService
	reportService     service.ReportService
	feedbackService   service.FeedbackService
}

func NewTeacherController(
	assignmentService service.AssignmentService,
	reportService service.ReportService,
	feedbackService service.FeedbackService,
) *TeacherController {
	return &TeacherController{
		assignmentService: assignmentService,
		reportService:     reportService,
		feedbackService:   feedbackService,
	}
}

// Assign godoc
// @Summary (Teacher) Assign a quiz to students
// @Description Creates one assignment per listed student. Students who already have the quiz are skipped, so repeating the call is safe.
// @Tags Teacher - Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param students body dto.AssignRequest true "Student ids"
// @Success 200 {object} dto.AssignResponse "Ids of the newly created assignments"
// @Failure 400 {object} dto.ErrorResponse "Malformed list or unknown students"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id}/assign/ [post]
func (tc *TeacherController) Assign(c *gin.Context) {
	quizID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignRequest
	if !controller.BindOptionalJSON(c, &req) {
		return
	}
	resp, err := tc.assignmentService.Assign(c.Request.Context(), middleware.Teacher(c), quizID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAssignments godoc
// @Summary (Teacher) List the assignments of a quiz
// @Tags Teacher - Assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {array} dto.AssignmentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id}/assignments/ [get]
func (tc *TeacherController) ListAssignments(c *gin.Context) {
	quizID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	assignments, err := tc.assignmentService.ListForQuiz(c.Request.Context(), middleware.Teacher(c), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// UpdateAssignment godoc
// @Summary (Teacher) Change an assignment
// @Description Toggles is_active or moves the availability window. clear_window removes the window.
// @Tags Teacher - Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param assignment body dto.UpdateAssignmentRequest true "Fields to change"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /assignments/{id}/ [patch]
func (tc *TeacherController) UpdateAssignment(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAssignmentRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	assignment, err := tc.assignmentService.Update(c.Request.Context(), middleware.Teacher(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// RevokeAssignment godoc
// @Summary (Teacher) Revoke an assignment
// @Tags Teacher - Assignments
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /assignments/{id}/ [delete]
func (tc *TeacherController) RevokeAssignment(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if err := tc.assignmentService.Revoke(c.Request.Context(), middleware.Teacher(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary (Teacher) Attempt counts per quiz
// @Tags Teacher - Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizSummaryResponse
// @Router /teacher/quizzes/summary/ [get]
func (tc *TeacherController) Summary(c *gin.Context) {
	summary, err := tc.reportService.TeacherSummary(c.Request.Context(), middleware.Teacher(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// QuizAttempts godoc
// @Summary (Teacher) Attempts on one of the caller's quizzes
// @Description Newest first, with every answer and its correctness.
// @Tags Teacher - Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {array} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Quiz not found or not owned by the caller"
// @Router /teacher/quizzes/{id}/attempts/ [get]
func (tc *TeacherController) QuizAttempts(c *gin.Context) {
	quizID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	attempts, err := tc.reportService.TeacherQuizAttempts(c.Request.Context(), middleware.Teacher(c), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// DraftFeedback godoc
// @Summary (Teacher) Draft AI feedback for short answers
// @Description Asks the language model for a suggested score and comment on each short answer of a finished attempt. Correctness and score are not changed.
// @Tags Teacher - Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Param filter body dto.DraftFeedbackRequest false "Limit drafting to one question"
// @Success 200 {array} dto.AttemptAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Attempt still in progress or drafting disabled"
// @Failure 404 {object} dto.ErrorResponse
// @Router /teacher/attempts/{id}/feedback/ [post]
func (tc *TeacherController) DraftFeedback(c *gin.Context) {
	attemptID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.DraftFeedbackRequest
	if !controller.BindOptionalJSON(c, &req) {
		return
	}
	answers, err := tc.feedbackService.DraftForAttempt(c.Request.Context(), middleware.Teacher(c), attemptID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}
