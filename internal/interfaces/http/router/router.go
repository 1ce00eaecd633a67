// Package router wires handlers to URL paths.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/interfaces/http/dto"
)

// APIPrefix is the mount point of every storefront group
const APIPrefix = "/api/v1"

// RouteRegistrar mounts its routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts route groups under APIPrefix
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// NewRouter creates a Router for engine
func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Register queues registrars for Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts the queued groups and answers unknown paths with the JSON
// envelope instead of gin's plain-text 404
func (r *Router) Setup() {
	api := r.engine.Group(APIPrefix)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	r.engine.HandleMethodNotAllowed = true
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found"))
	})
	r.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Method not allowed"))
	})
}

// Routes lists "METHOD /path" for every queued route, in registration order
func (r *Router) Routes() []string {
	var out []string
	for _, registrar := range r.registrars {
		if dg, ok := registrar.(*DomainGroup); ok {
			out = append(out, dg.describe(APIPrefix)...)
		}
	}
	return out
}

// DomainGroup is a prefix with its own middleware and routes
type DomainGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	subgroups  []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a group mounted at prefix
func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// Use adds middleware that runs before every route of the group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle adds a route; the last handler is the endpoint
func (dg *DomainGroup) Handle(method, p string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: p, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, p, h...)
}

func (dg *DomainGroup) POST(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, p, h...)
}

func (dg *DomainGroup) PUT(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, p, h...)
}

func (dg *DomainGroup) PATCH(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, p, h...)
}

func (dg *DomainGroup) DELETE(p string, h ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, p, h...)
}

// Group nests a group under this one; it inherits this group's middleware
func (dg *DomainGroup) Group(prefix string) *DomainGroup {
	sub := NewDomainGroup(prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, r := range dg.routes {
		group.Handle(r.method, r.path, r.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.RegisterRoutes(group)
	}
}

func (dg *DomainGroup) describe(base string) []string {
	base = path.Join(base, dg.prefix)
	out := make([]string, 0, len(dg.routes))
	for _, r := range dg.routes {
		out = append(out, r.method+" "+path.Join(base, r.path))
	}
	for _, sub := range dg.subgroups {
		out = append(out, sub.describe(base)...)
	}
	return out
}
