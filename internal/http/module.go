package http

import "github.com/gin-gonic/gin"

// RouterContext carries the route groups a module can mount handlers on.
type RouterContext struct {
	// Public is the unauthenticated /api group.
	Public *gin.RouterGroup
	// Protected is the /api group behind JWT authentication.
	Protected *gin.RouterGroup
	// V1Public is the unauthenticated /api/v1 group.
	V1Public *gin.RouterGroup
	// V1Protected is the /api/v1 group behind JWT authentication.
	V1Protected *gin.RouterGroup
}

// Module is a self-contained bounded context that registers its own routes.
type Module interface {
	// Name returns the module identifier, used for logging.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router context.
	RegisterRoutes(ctx *RouterContext)
}
