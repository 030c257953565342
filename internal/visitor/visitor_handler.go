package visitor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	visitorerrors "go-visitor/internal/visitor/errors"
	"go-visitor/internal/shared/apperror"
	"go-visitor/internal/shared/contextutil"
	"go-visitor/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	return NewHandlerWithRedis(service, nil, logger...)
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("visitor.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("visitor.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	log := contextutil.GetLogger(c.Request.Context(), h.logger)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		log.Error("visitor request failed", append(fields, zap.String("details", httpErr.Details))...)
	} else {
		log.Warn("visitor request rejected", fields...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// bindOptionalJSON treats an empty body as an empty payload so the service can
// report which field is missing.
func bindOptionalJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) Create(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateVisitorRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				if err := h.rdb.Set(c.Request.Context(), ck, payload, idempotencyTTL).Err(); err != nil {
					contextutil.GetLogger(c.Request.Context(), h.logger).Warn("idempotency cache write failed",
						zap.String("cache_key", ck),
						zap.Error(err),
					)
				}
			}
		}
	}

	response.Success(c, http.StatusCreated, "Visitor entry added successfully", resp)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", resp)
}

func (h *Handler) GetRecent(c *gin.Context) {
	days, err := strconv.Atoi(c.Param("days"))
	if err != nil || days < 0 {
		h.writeServiceError(c, visitorerrors.ErrInvalidDays)
		return
	}

	resp, err := h.service.GetRecent(c.Request.Context(), days)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", resp)
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Visitor checked out successfully", resp)
}

func (h *Handler) Update(c *gin.Context) {
	updates := map[string]any{}
	if err := bindOptionalJSON(c, &updates); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("key"), updates)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Visitor entry updated successfully", resp)
}
