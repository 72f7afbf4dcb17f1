package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on a router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts API route groups on a gin engine.
type Router struct {
	engine  *gin.Engine
	version string
}

// NewRouter creates a new Router mounting routes under /api/<version>
func NewRouter(engine *gin.Engine, version string) *Router {
	return &Router{
		engine:  engine,
		version: version,
	}
}

// Register mounts each registrar under the versioned API group
func (r *Router) Register(registrars ...RouteRegistrar) {
	api := r.engine.Group("/api/" + r.version)
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}
}
