// Package auth provides the authentication bounded context module.
package auth

import (
	"participant_portal_backend/internal/auth/handler"
	"participant_portal_backend/internal/auth/repository"
	"participant_portal_backend/internal/auth/service"
	apphttp "participant_portal_backend/internal/http"
	"participant_portal_backend/platform/config"
	"participant_portal_backend/platform/httpkit"
	"participant_portal_backend/platform/logger"
	"participant_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	limiter *httpkit.IPRateLimiter
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		limiter: httpkit.NewAuthRateLimiter(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes with a stricter rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1Public.Group("/auth")
	group.Use(m.limiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
