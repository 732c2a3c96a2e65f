package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Ye-Yu-Mo/task-view/docs"
	"github.com/Ye-Yu-Mo/task-view/internal/config"
	"github.com/Ye-Yu-Mo/task-view/internal/database"
	"github.com/Ye-Yu-Mo/task-view/internal/handler"
	"github.com/Ye-Yu-Mo/task-view/internal/middleware"
	"github.com/Ye-Yu-Mo/task-view/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	default:
		return nil, fmt.Errorf("❌ unknown GIN_MODE %q", cfg.GinMode)
	}

	// Setup GORM
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Printf("✅ Connected to %s database", cfg.DBDriver)

	// Apply pending migrations before serving
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
	}

	r, err := NewRouter(db, cfg)
	if err != nil {
		return nil, err
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

// NewRouter wires repositories and handlers over db and registers every route.
func NewRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("❌ failed to register validators: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	corsMiddleware, err := middleware.CORS(cfg.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("❌ invalid CORS_ALLOWED_ORIGINS: %w", err)
	}

	// Setup Gin
	r := gin.Default()
	r.Use(corsMiddleware)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(sqlDB)
	userHandler := handler.NewUserHandler(userRepo, cfg.BcryptCost)
	inviteHandler := handler.NewInviteHandler(inviteRepo, userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, inviteRepo)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		// Auth routes
		api.POST("/auth/register", userHandler.Register)
		api.POST("/auth/login", userHandler.Login)
		api.GET("/users/:user_id", userHandler.GetByID)

		// Invite routes
		api.POST("/invites", inviteHandler.Create)
		api.POST("/invites/use", inviteHandler.Use)
		api.GET("/invites/:user_id", inviteHandler.ListByCreator)
		api.GET("/invites/executor/:executor_id", inviteHandler.ListByExecutor)
		api.GET("/invite/:invite_id", inviteHandler.GetByID)

		// Task routes
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks/:invite_id", taskHandler.ListByInvite)
		api.PUT("/task/:task_id", taskHandler.Update)
		api.PUT("/task/:task_id/status", taskHandler.UpdateStatus)
		api.DELETE("/task/:task_id", taskHandler.Delete)
	}
	return r, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		log.Printf("📖 Swagger UI at http://localhost:%s/swagger/index.html\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("✅ Server exited properly")
}
