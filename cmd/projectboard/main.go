package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/db"
	"github.com/monocle-dev/projectboard/internal/auth"
	"github.com/monocle-dev/projectboard/internal/config"
	"github.com/monocle-dev/projectboard/internal/credentials"
	"github.com/monocle-dev/projectboard/internal/handlers"
	"github.com/monocle-dev/projectboard/internal/logger"
	"github.com/monocle-dev/projectboard/internal/projects"
	"github.com/monocle-dev/projectboard/internal/realtime"
	"github.com/monocle-dev/projectboard/internal/router"
	"github.com/monocle-dev/projectboard/internal/store/postgres"
	"github.com/monocle-dev/projectboard/internal/tasks"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env, cfg.LogPath)
	log.WithField("env", cfg.Env).Info("starting projectboard")

	if !cfg.EnvFileLoaded {
		log.Debug("no .env file found, using process environment")
	}

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.ConnectDatabase(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := db.MigrateDatabase(database); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	sessions, err := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		log.WithError(err).Fatal("failed to set up sessions")
	}

	sqlDB, err := database.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get database handle")
	}

	st := postgres.NewStore(database, log)

	r := router.NewRouter(router.Deps{
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		Cookie:         handlers.CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure},
		Sessions:       sessions,
		Credentials:    credentials.NewService(st, log, cfg.BcryptCost),
		Projects:       projects.NewService(st, log),
		Tasks:          tasks.NewService(st, log),
		Hub:            realtime.NewHub(cfg.AllowedOrigins, log),
		Database:       sqlDB,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}

	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Error("failed to close database")
	}
}
