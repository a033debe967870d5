package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quizdesk/internal/controller"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a user
// @Description Creates a teacher or student account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or username taken"
// @Router /auth/register/ [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	user, err := ac.authService.Register(c.Request.Context(), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Obtain a token pair
// @Description Exchanges credentials for an access and a refresh token. The role is carried in the token claims.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Username and password"
// @Success 200 {object} dto.TokenPairResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 401 {object} dto.ErrorResponse "Bad credentials"
// @Router /auth/login/ [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	pair, err := ac.authService.Login(c.Request.Context(), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary Refresh the access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.AccessTokenResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh/ [post]
func (ac *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !controller.BindJSON(c, &req) {
		return
	}
	access, err := ac.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}
