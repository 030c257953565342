package visitor

import (
	"go-visitor/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RouteOptions struct {
	// WriteLimit and WriteBurst throttle create/checkout/update per client IP. Zero disables.
	WriteLimit rate.Limit
	WriteBurst int
	Redis      *redis.Client
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler, opts RouteOptions) {
	var writes []gin.HandlerFunc
	if opts.WriteLimit > 0 {
		writes = append(writes, middleware.RateLimitByIP(opts.WriteLimit, opts.WriteBurst))
	}

	create := append([]gin.HandlerFunc(nil), writes...)
	if opts.Redis != nil {
		create = append(create, middleware.Idempotency(opts.Redis))
	}

	visitors := r.Group("/visitors")
	{
		visitors.GET("", h.GetAll)
		visitors.GET("/recent/:days", h.GetRecent)
		visitors.POST("", chain(create, h.Create)...)
		visitors.PATCH("/:key/checkout", chain(writes, h.Checkout)...)
		visitors.PATCH("/:key", chain(writes, h.Update)...)
	}
}
