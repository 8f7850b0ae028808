package users

import (
	"time"

	apphttp "participant_portal_backend/internal/http"
	"participant_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the user profile bounded context implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the users module. redisClient may be nil, which disables
// the profile cache.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	cache := NewProfileCache(redisClient, cacheTTL)
	return &Module{handler: NewHandler(repo, cache, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// RegisterRoutes mounts the profile endpoint behind authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/users"))
}

var _ apphttp.Module = (*Module)(nil)
