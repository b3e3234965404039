package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Frisk239/minpaixinyu-new/internal/cache"
	"github.com/Frisk239/minpaixinyu-new/internal/config"
	"github.com/Frisk239/minpaixinyu-new/internal/decision"
	"github.com/Frisk239/minpaixinyu-new/internal/game"
	"github.com/Frisk239/minpaixinyu-new/internal/httpapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.Init(ctx, cfg.RedisAddr); err != nil {
			logrus.WithError(err).Warn("redis unavailable, action logging disabled")
		}
		cancel()
		defer cache.Close()
	}

	var decisions game.DecisionClient
	if cfg.DecisionBaseURL != "" {
		decisions = decision.NewClient(
			&http.Client{Timeout: cfg.DecisionTimeout},
			cfg.DecisionBaseURL,
		)
		logrus.WithField("base_url", cfg.DecisionBaseURL).Info("remote AI delegation enabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	handler := httpapi.NewHandler(decisions, cfg.DeclareWindow)
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("starting server")
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown error")
	}
}
