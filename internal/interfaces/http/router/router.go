// Package router wires handlers onto the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers one handler's routes onto a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them at the engine root. The
// dashboard API is unversioned: resource routers live directly under /.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// NewRouter creates a router over the engine.
func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Register adds a registrar; chainable.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registered handler.
func (r *Router) Setup() {
	root := r.engine.Group("/")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(root)
	}
}
