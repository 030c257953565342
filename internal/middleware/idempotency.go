package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-visitor/internal/shared/apperror"
	"go-visitor/internal/shared/contextutil"
	"go-visitor/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyLockTTL = 30 * time.Second

// Idempotency replays the stored response of a POST that carried the same
// Idempotency-Key. The handler stores the response under idempotency_cache_key
// and releases idempotency_lock_key when it is done.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L().Named("middleware.idempotency"))
		cacheKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached any
			if json.Unmarshal([]byte(val), &cached) == nil {
				log.Debug("replaying idempotent response", zap.String("key", idempKey))
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, http.StatusCreated, "Visitor entry added successfully", cached)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			// cache unavailable: serve the request without protection
			log.Warn("idempotency cache read failed", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Abort(c, http.StatusConflict, apperror.CodeConflict, "A request with this Idempotency-Key is still being processed")
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
