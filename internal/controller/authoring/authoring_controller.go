package authoring

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quizdesk/internal/controller"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/middleware"
	"github.com/lshigami/Quizdesk/internal/service"
)

// AuthoringController serves quiz, question and choice CRUD. Reads are open
// to both roles with role-specific views; writes need the teacher role.
type AuthoringController struct {
	quizService     service.QuizService
	questionService service.QuestionService
	choiceService   service.ChoiceService
}

func NewAuthoringController(
	quizService service.QuizService,
	questionService service.QuestionService,
	choiceService service.ChoiceService,
) *AuthoringController {
	return &AuthoringController{
		quizService:     quizService,
		questionService: questionService,
		choiceService:   choiceService,
	}
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Teachers see their own quizzes. Students see the quizzes assigned to them, without answers.
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /quizzes/ [get]
func (ac *AuthoringController) ListQuizzes(c *gin.Context) {
	if teacher, ok := middleware.TeacherFrom(c); ok {
		quizzes, err := ac.quizService.ListForTeacher(c.Request.Context(), teacher)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, quizzes)
		return
	}
	quizzes, err := ac.quizService.ListForStudent(c.Request.Context(), middleware.Student(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Description Creates a quiz owned by the caller, optionally with questions and choices.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not a teacher"
// @Router /quizzes/ [post]
func (ac *AuthoringController) CreateQuiz(c *gin.Context) {
	var req dto.CreateQuizRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	quiz, err := ac.quizService.Create(c.Request.Context(), middleware.Teacher(c), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id}/ [get]
func (ac *AuthoringController) GetQuiz(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if teacher, ok := middleware.TeacherFrom(c); ok {
		quiz, err := ac.quizService.GetForTeacher(c.Request.Context(), teacher, id)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, quiz)
		return
	}
	quiz, err := ac.quizService.GetForStudent(c.Request.Context(), middleware.Student(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz godoc
// @Summary Update a quiz
// @Description Omitted fields are left unchanged. A time limit of 0 removes the limit.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param quiz body dto.UpdateQuizRequest true "Fields to change"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id}/ [patch]
func (ac *AuthoringController) UpdateQuiz(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuizRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	quiz, err := ac.quizService.Update(c.Request.Context(), middleware.Teacher(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ReplaceQuiz godoc
// @Summary Replace a quiz
// @Description Omitted fields are reset to their defaults: no description, no time limit, no shuffling. Questions are kept.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param quiz body dto.ReplaceQuizRequest true "Quiz"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id}/ [put]
func (ac *AuthoringController) ReplaceQuiz(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReplaceQuizRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	quiz, err := ac.quizService.Update(c.Request.Context(), middleware.Teacher(c), id, req.Update())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Deletes the quiz with its questions, choices, assignments and attempts.
// @Tags Quizzes
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id}/ [delete]
func (ac *AuthoringController) DeleteQuiz(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if err := ac.quizService.Delete(c.Request.Context(), middleware.Teacher(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListQuestions godoc
// @Summary List questions
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param quiz query int false "Only questions of this quiz"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/ [get]
func (ac *AuthoringController) ListQuestions(c *gin.Context) {
	quizID, ok := controller.ParseOptionalQueryID(c, "quiz")
	if !ok {
		return
	}
	if teacher, ok := middleware.TeacherFrom(c); ok {
		questions, err := ac.questionService.ListForTeacher(c.Request.Context(), teacher, quizID)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, questions)
		return
	}
	questions, err := ac.questionService.ListForStudent(c.Request.Context(), middleware.Student(c), quizID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// CreateQuestion godoc
// @Summary Add a question to a quiz
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /questions/ [post]
func (ac *AuthoringController) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	question, err := ac.questionService.Create(c.Request.Context(), middleware.Teacher(c), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// GetQuestion godoc
// @Summary Get a question
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/ [get]
func (ac *AuthoringController) GetQuestion(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if teacher, ok := middleware.TeacherFrom(c); ok {
		question, err := ac.questionService.GetForTeacher(c.Request.Context(), teacher, id)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, question)
		return
	}
	question, err := ac.questionService.GetForStudent(c.Request.Context(), middleware.Student(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param question body dto.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/ [patch]
func (ac *AuthoringController) UpdateQuestion(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuestionRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	question, err := ac.questionService.Update(c.Request.Context(), middleware.Teacher(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// ReplaceQuestion godoc
// @Summary Replace a question
// @Description Points default to 1 and an omitted reference answer is cleared. Choices are kept.
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param question body dto.ReplaceQuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/ [put]
func (ac *AuthoringController) ReplaceQuestion(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReplaceQuestionRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	question, err := ac.questionService.Update(c.Request.Context(), middleware.Teacher(c), id, req.Update())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags Questions
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id}/ [delete]
func (ac *AuthoringController) DeleteQuestion(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if err := ac.questionService.Delete(c.Request.Context(), middleware.Teacher(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListChoices godoc
// @Summary List the choices of a question
// @Tags Choices
// @Produce json
// @Security BearerAuth
// @Param question query int true "Question ID"
// @Success 200 {array} dto.ChoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /choices/ [get]
func (ac *AuthoringController) ListChoices(c *gin.Context) {
	questionID, ok := controller.ParseOptionalQueryID(c, "question")
	if !ok {
		return
	}
	if questionID == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Detail: "Invalid query parameter.",
			Errors: map[string]string{"question": "This parameter is required."},
		})
		return
	}
	choices, err := ac.choiceService.List(c.Request.Context(), middleware.Teacher(c), *questionID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, choices)
}

// CreateChoice godoc
// @Summary Add a choice to a question
// @Tags Choices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param choice body dto.CreateChoiceRequest true "Choice"
// @Success 201 {object} dto.ChoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /choices/ [post]
func (ac *AuthoringController) CreateChoice(c *gin.Context) {
	var req dto.CreateChoiceRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	choice, err := ac.choiceService.Create(c.Request.Context(), middleware.Teacher(c), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, choice)
}

// GetChoice godoc
// @Summary Get a choice
// @Tags Choices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Choice ID"
// @Success 200 {object} dto.ChoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /choices/{id}/ [get]
func (ac *AuthoringController) GetChoice(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	choice, err := ac.choiceService.Get(c.Request.Context(), middleware.Teacher(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, choice)
}

// UpdateChoice godoc
// @Summary Update a choice
// @Tags Choices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Choice ID"
// @Param choice body dto.UpdateChoiceRequest true "Fields to change"
// @Success 200 {object} dto.ChoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /choices/{id}/ [patch]
func (ac *AuthoringController) UpdateChoice(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateChoiceRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	choice, err := ac.choiceService.Update(c.Request.Context(), middleware.Teacher(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, choice)
}

// ReplaceChoice godoc
// @Summary Replace a choice
// @Tags Choices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Choice ID"
// @Param choice body dto.ReplaceChoiceRequest true "Choice"
// @Success 200 {object} dto.ChoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /choices/{id}/ [put]
func (ac *AuthoringController) ReplaceChoice(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ReplaceChoiceRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	choice, err := ac.choiceService.Update(c.Request.Context(), middleware.Teacher(c), id, req.Update())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, choice)
}

// DeleteChoice godoc
// @Summary Delete a choice
// @Tags Choices
// @Security BearerAuth
// @Param id path int true "Choice ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /choices/{id}/ [delete]
func (ac *AuthoringController) DeleteChoice(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if err := ac.choiceService.Delete(c.Request.Context(), middleware.Teacher(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
