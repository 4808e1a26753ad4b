// @title Quiz Tube API
// @version 1.0
// @description Turns YouTube videos into ten-question multiple-choice quizzes.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize, or send the access_token cookie.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-tube/cmd/api/docs"
	"quiz-tube/internal/adapter"
	"quiz-tube/internal/adapter/audio"
	"quiz-tube/internal/adapter/quizgen"
	"quiz-tube/internal/adapter/transcriber"
	"quiz-tube/internal/cache"
	"quiz-tube/internal/config"
	"quiz-tube/internal/database"
	"quiz-tube/internal/handler"
	"quiz-tube/internal/logger"
	"quiz-tube/internal/middleware"
	"quiz-tube/internal/repository"
	"quiz-tube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Connect to database
	db, err := database.Open(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis Client
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("RedisCacheAdapter initialized")

	// Pipeline adapters
	acquirer := audio.NewYTDLPAcquirer(cfg.Pipeline, nil, appLogger.Named("audio"))
	if err := acquirer.CheckTools(); err != nil {
		appLogger.Warn("Audio tooling incomplete, quiz creation will fail", zap.Error(err))
	}

	loader, err := transcriber.NewLoader(cfg.Whisper)
	if err != nil {
		appLogger.Fatal("Failed to configure transcriber", zap.Error(err))
	}
	transcription := transcriber.NewService(loader, cfg.Whisper.Model, appLogger.Named("transcriber"),
		transcriber.WithMaxConcurrency(cfg.Whisper.MaxConcurrency),
		transcriber.WithLanguageDetector(transcriber.NewLinguaDetector()),
	)

	llm, err := quizgen.NewLLM(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err), zap.String("provider", cfg.LLM.Provider))
	}
	generator := quizgen.NewLLMQuizGenerator(llm, cfg.LLM, appLogger.Named("quizgen"))
	appLogger.Info("Quiz generator initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	// Initialize repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	quizService := service.NewQuizService(service.QuizServiceDeps{
		Repo:          quizRepository,
		TxManager:     txManager,
		Acquirer:      acquirer,
		Transcriber:   transcription,
		Generator:     generator,
		WithWorkDir:   audio.WithWorkDir,
		WorkDirPrefix: cfg.Pipeline.WorkDirPrefix,
		Logger:        appLogger.Named("quiz"),
	})
	authService, err := service.NewAuthService(cfg.JWT.SecretKey, cacheAdapter, appLogger.Named("auth"))
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: cfg.Server.AllowOrigins != "*",
		MaxAge:           300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", healthHandler.Liveness)
	app.Get("/readyz", healthHandler.Readiness)

	// API group, every route requires an access token
	apiGroup := app.Group("/api", middleware.Protected(authService))
	apiGroup.Post("/createQuiz", quizHandler.CreateQuiz)
	apiGroup.Post("/quizzes", quizHandler.CreateQuiz)
	apiGroup.Get("/quizzes", quizHandler.ListQuizzes)
	apiGroup.Get("/quizzes/:id", middleware.ValidateQuizID(), quizHandler.GetQuiz)
	apiGroup.Patch("/quizzes/:id", middleware.ValidateQuizID(), quizHandler.UpdateQuiz)
	apiGroup.Delete("/quizzes/:id", middleware.ValidateQuizID(), quizHandler.DeleteQuiz)
	apiGroup.Post("/logout", authHandler.Logout)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
