package main

import (
	"context"
	_ "time/tzdata"

	"go-visitor/internal/app"
	"go-visitor/internal/bootstrap"
	"go-visitor/internal/config"
	"go-visitor/internal/shared/apperror"
	"go-visitor/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "visitor-api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if cfg.LogFormat != "console" {
		gin.SetMode(gin.ReleaseMode)
	}
	apperror.Init()

	// the sheets client keeps this context for token refreshes
	router, cleanup, err := app.BuildApp(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	if err := bootstrap.StartHTTPServer(router, bootstrap.DefaultServerConfig(cfg.Port), bootstrap.NewStdoutAuditLogger(log)); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}
