package users

import (
	"errors"
	"net/http"
	"strings"

	"participant_portal_backend/platform/httpkit"
	"participant_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo  *Repository
	cache *ProfileCache
	log   *logger.Logger
}

func NewHandler(repo *Repository, cache *ProfileCache, log *logger.Logger) *Handler {
	return &Handler{repo: repo, cache: cache, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetByEmail)
}

// GetByEmail serves GET /api/users?email=. A 404 here is a legitimate state
// for the client cache: the caller is authenticated but not registered.
func (h *Handler) GetByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		httpkit.Error(c, http.StatusBadRequest, "email query parameter is required", nil)
		return
	}

	ctx := c.Request.Context()

	if cached := h.cache.Get(ctx, email); cached != nil {
		httpkit.OK(c, cached)
		return
	}

	user, err := h.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		httpkit.Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		h.log.DatabaseError("users.get_by_email", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to load user profile", nil)
		return
	}

	if user.Organization == nil {
		h.log.Warn("user has no organization", "email", user.Email)
	}

	h.cache.Set(ctx, email, user)
	httpkit.OK(c, user)
}
