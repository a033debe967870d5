package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quizdesk/config"
	"github.com/lshigami/Quizdesk/database"
	_ "github.com/lshigami/Quizdesk/docs" // Swagger docs - generated by swag init
	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/clock"
	authctrl "github.com/lshigami/Quizdesk/internal/controller/auth"
	"github.com/lshigami/Quizdesk/internal/controller/authoring"
	studentctrl "github.com/lshigami/Quizdesk/internal/controller/student"
	teacherctrl "github.com/lshigami/Quizdesk/internal/controller/teacher"
	"github.com/lshigami/Quizdesk/internal/logger"
	"github.com/lshigami/Quizdesk/internal/repository"
	"github.com/lshigami/Quizdesk/internal/router"
	"github.com/lshigami/Quizdesk/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quizdesk API
// @version 1.0
// @description Quiz administration backend: teachers author and assign quizzes, students take timed attempts.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			clock.New,
			auth.NewTokenService,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewChoiceRepository,
			repository.NewAssignmentRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewScoringEngine,
			service.NewGeminiDrafter,
			service.NewAuthService,
			service.NewQuizService,
			service.NewQuestionService,
			service.NewChoiceService,
			service.NewAssignmentService,
			service.NewAttemptService,
			service.NewReportService,
			service.NewFeedbackService,
		),

		// API Controllers Layer
		fx.Provide(
			authctrl.NewAuthController,
			authoring.NewAuthoringController,
			teacherctrl.NewTeacherController,
			studentctrl.NewStudentController,
		),

		fx.Invoke(ApplyLogLevel),
		fx.Invoke(database.AutoMigrate),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func ApplyLogLevel(cfg *config.Config) {
	logger.SetLevel(cfg.LogLevel)
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 || cfg.Server.CORSAllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer mounts the API and ties the HTTP server to the fx lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	engine *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	tokens *auth.TokenService,
	authCtrl *authctrl.AuthController,
	authoringCtrl *authoring.AuthoringController,
	teacherCtrl *teacherctrl.TeacherController,
	studentCtrl *studentctrl.StudentController,
) {
	router.Register(engine, tokens, router.Controllers{
		Auth:      authCtrl,
		Authoring: authoringCtrl,
		Teacher:   teacherCtrl,
		Student:   studentCtrl,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quizdesk API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
