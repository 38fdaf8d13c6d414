package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ChainReader is the part of an RPC client readiness needs
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db    *sql.DB
	rdb   *redis.Client
	chain ChainReader
}

// NewHealthHandler creates a new HealthHandler. rdb is nil when nonces are not kept in Redis,
// chain is nil when no RPC is configured.
func NewHealthHandler(db *sql.DB, rdb *redis.Client, chain ChainReader) *HealthHandler {
	return &HealthHandler{
		db:    db,
		rdb:   rdb,
		chain: chain,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse represents readiness check response
type ReadyResponse struct {
	Status string `json:"status" example:"ok"`
	DB     string `json:"db" example:"ok"`
	Redis  string `json:"redis,omitempty" example:"ok"`
	Chain  string `json:"chain,omitempty" example:"ok"`
	Block  uint64 `json:"block,omitempty" example:"41234567"`
}

// Health godoc
// @Summary Health check
// @Description Returns server health status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready godoc
// @Summary Readiness check
// @Description Returns readiness including DB, Redis and chain RPC connectivity
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := ReadyResponse{
		Status: "ok",
		DB:     "ok",
	}
	statusCode := http.StatusOK
	degrade := func() {
		response.Status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	if err := h.db.PingContext(ctx); err != nil {
		response.DB = "error"
		degrade()
	}

	if h.rdb != nil {
		response.Redis = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			response.Redis = "error"
			degrade()
		}
	}

	if h.chain != nil {
		block, err := h.chain.BlockNumber(ctx)
		if err != nil {
			response.Chain = "error"
			degrade()
		} else {
			response.Chain = "ok"
			response.Block = block
		}
	}

	c.JSON(statusCode, response)
}
