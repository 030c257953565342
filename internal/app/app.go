package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-visitor/internal/config"
	"go-visitor/internal/middleware"
	"go-visitor/internal/sheet"
	"go-visitor/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the configured store (and Redis when REDIS_ADDR is set)
// and returns the router with every module registered.
func BuildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, 5)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = rdb.Close() }
	} else {
		logger.Info("REDIS_ADDR not set, idempotency keys disabled")
	}

	router, err := NewRouter(cfg, store, rdb, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return router, cleanup, nil
}

func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (sheet.RowStore, error) {
	switch cfg.Store.Driver {
	case config.StoreSheets:
		svc, err := connection.NewSheetsService(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		logger.Info("using google sheets store", zap.String("spreadsheet_id", cfg.Store.SpreadsheetID))
		return sheet.NewGoogleSheetsStore(svc, cfg.Store.SpreadsheetID, cfg.Store.SheetTitle, logger), nil
	case config.StoreExcel:
		logger.Info("using excel store", zap.String("path", cfg.Store.ExcelPath))
		return sheet.NewExcelStore(cfg.Store.ExcelPath, cfg.Store.SheetTitle, logger), nil
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return sheet.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewRouter wires middleware, health and metrics endpoints and the /api modules
// on top of an already opened store. rdb may be nil.
func NewRouter(cfg config.Config, store sheet.RowStore, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.CORS(cfg.CORSOrigins),
		metrics.Middleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	if err := registerModules(r.Group("/api"), cfg, store, rdb, logger); err != nil {
		return nil, err
	}
	return r, nil
}
