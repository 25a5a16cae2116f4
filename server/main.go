package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/admin"
	"github.com/verdict-com/verdict/server/auth"
	"github.com/verdict-com/verdict/server/config"
	"github.com/verdict-com/verdict/server/history"
	"github.com/verdict-com/verdict/server/internal/logging"
	"github.com/verdict-com/verdict/server/live"
	"github.com/verdict-com/verdict/server/profile"
	"github.com/verdict-com/verdict/server/qa"
	"github.com/verdict-com/verdict/server/search"
	"github.com/verdict-com/verdict/server/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.GinMode)

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, st, live.NewHub(), logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(cfg config.Config, logger *zap.Logger) (store.API, func(), error) {
	if cfg.DBPath == "" {
		logger.Info("using in-memory store")
		return store.NewStore(), func() {}, nil
	}
	sqlStore, err := store.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	logger.Info("using sqlite store", zap.String("path", cfg.DBPath))
	return sqlStore, func() {
		if err := sqlStore.Close(); err != nil {
			logger.Warn("close sqlite", zap.Error(err))
		}
	}, nil
}

func newRouter(cfg config.Config, st store.API, hub *live.Hub, logger *zap.Logger) *gin.Engine {
	authService := &auth.Service{Store: st, Logger: logger, IsAdminAccount: cfg.IsAdminAccount}
	profileHandler := &profile.Handler{Store: st, Logger: logger}
	qaHandler := &qa.Handler{Store: st, Auth: authService, Publisher: hub, Logger: logger}
	adminHandler := &admin.Handler{Store: st, Auth: authService, Publisher: hub, Logger: logger}
	searchHandler := &search.Handler{Store: st}
	historyHandler := &history.Handler{Store: st, Auth: authService, Logger: logger}
	liveHandler := &live.Handler{Hub: hub, Logger: logger}

	r := gin.New()
	r.Use(logging.Middleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.POST("/auth/register", authService.RegisterHandler)
	api.POST("/auth/login", authService.LoginHandler)
	api.GET("/users/me", authService.GetMe)
	api.PATCH("/users/me", authService.UpdateMe)
	api.GET("/users/me/xp-events", historyHandler.List)

	api.GET("/professionals/:username", profileHandler.Get)
	api.GET("/leaderboard", profileHandler.Leaderboard)
	api.GET("/progression/level", profileHandler.Level)
	api.GET("/badges", profileHandler.Badges)

	api.POST("/users/:id/xp", adminHandler.AwardXP)
	api.POST("/users/:id/badges", adminHandler.AwardBadge)
	api.POST("/users/:id/verify", adminHandler.Verify)

	api.GET("/questions", qaHandler.ListQuestions)
	api.POST("/questions", qaHandler.CreateQuestion)
	api.GET("/questions/:id", qaHandler.GetQuestion)
	api.GET("/questions/:id/opinions", qaHandler.ListOpinions)
	api.POST("/questions/:id/opinions", qaHandler.CreateOpinion)
	api.POST("/questions/:id/opinions/:opinionID/accept", qaHandler.AcceptOpinion)

	api.GET("/search/questions", searchHandler.SearchQuestions)
	api.GET("/search/professionals", searchHandler.SearchProfessionals)

	r.GET("/ws/progress", liveHandler.ServeWS)
	return r
}
