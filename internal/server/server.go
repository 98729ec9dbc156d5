package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "taskify/docs"
	"taskify/internal/auth"
	"taskify/internal/config"
	"taskify/internal/database"
	"taskify/internal/handler"
	"taskify/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Server struct {
	Engine *gin.Engine
	Stores *database.Stores
	Config *config.Config
	Logger *slog.Logger
}

// Init opens the configured store, prepares its schema and builds the server.
func Init(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	stores, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := stores.Migrate(ctx); err != nil {
		_ = stores.Close(ctx)
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return New(cfg, stores, logger), nil
}

// New wires handlers and routes over already opened stores.
func New(cfg *config.Config, stores *database.Stores, logger *slog.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	userHandler := handler.NewUserHandler(stores.Accounts, auth.NewPasswordHasher(cfg.BcryptCost))
	taskHandler := handler.NewTaskHandler(stores.Tasks)
	healthHandler := handler.NewHealthHandler(stores)

	api := r.Group("/api")
	{
		api.POST("/signup", userHandler.Signup)
		api.POST("/login", userHandler.Login)

		api.GET("/usersTasks/:user_id", taskHandler.List)
		api.POST("/usersTasks/:user_id", taskHandler.Create)
		api.PATCH("/usersTasks/:user_id/:taskId", taskHandler.Update)
		api.DELETE("/usersTasks/:user_id/:taskId", taskHandler.Delete)
	}

	r.GET("/healthz", healthHandler.Check)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		Engine: r,
		Stores: stores,
		Config: cfg,
		Logger: logger,
	}
}

// Handler returns the engine behind the CORS policy.
func (s *Server) Handler() http.Handler {
	return middleware.CORS(s.Config.CORSAllowedOrigin)(s.Engine)
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests and closes the store.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("server running", "port", s.Config.ServerPort, "store", s.Config.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to listen: %w", err)
		}
	case <-quit:
	}
	s.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := s.Stores.Close(ctx); err != nil {
		s.Logger.Warn("failed to close store", "error", err)
	}

	s.Logger.Info("server exited properly")
	return nil
}
