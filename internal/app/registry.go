package app

import (
	"time"

	"go-visitor/internal/config"
	"go-visitor/internal/sheet"
	"go-visitor/internal/visitor"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	api *gin.RouterGroup,
	cfg config.Config,
	store sheet.RowStore,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	schema, err := visitor.SchemaFor(visitor.Variant(cfg.Schema.Variant))
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	// --- Repositories ---
	bootstrap := visitor.NewSchemaBootstrap(store, schema, cfg.Schema.Cache, logger)
	visitorRepo := visitor.NewRepository(store, bootstrap, cfg.Schema.WriteGuard)

	// --- Services ---
	visitorService := visitor.NewService(visitorRepo, visitor.ServiceOptions{
		Location: loc,
		Logger:   logger,
	})

	// --- Handlers ---
	visitorHandler := visitor.NewHandlerWithRedis(visitorService, rdb, logger)

	// --- Routes Registration ---
	visitor.RegisterRoutes(api, visitorHandler, visitor.RouteOptions{
		WriteLimit: rate.Limit(cfg.RateLimit.RPS),
		WriteBurst: cfg.RateLimit.Burst,
		Redis:      rdb,
	})
	return nil
}
