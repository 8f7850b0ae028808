// Package leads provides the lead conversion bounded context module.
// This file defines the module that encapsulates all setup and route registration.
package leads

import (
	"participant_portal_backend/internal/events"
	apphttp "participant_portal_backend/internal/http"
	"participant_portal_backend/internal/leads/handler"
	"participant_portal_backend/internal/leads/repository"
	"participant_portal_backend/internal/leads/service"
	"participant_portal_backend/platform/logger"
	"participant_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the lead conversion bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the conversion service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead management routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All lead management routes require authentication.
	group := ctx.V1Protected.Group("/lead-management")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
