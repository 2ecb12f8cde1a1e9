package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// API is the versioned route tree, mounted under /api/<version>
type API struct {
	version    string
	middleware []gin.HandlerFunc
	areas      []*Area
}

func NewAPI(version string) *API {
	return &API{version: version}
}

// BasePath is the mount prefix, e.g. /api/v1
func (a *API) BasePath() string { return "/api/" + a.version }

// Use adds middleware that runs only for routes of this API
func (a *API) Use(mw ...gin.HandlerFunc) *API {
	a.middleware = append(a.middleware, mw...)
	return a
}

// Area adds a named route prefix, such as "report" under /reports
func (a *API) Area(name, prefix string) *Area {
	ar := &Area{name: name, prefix: prefix}
	a.areas = append(a.areas, ar)
	return ar
}

// Mount registers every area on r and returns the API group
func (a *API) Mount(r gin.IRouter) *gin.RouterGroup {
	api := r.Group(a.BasePath(), a.middleware...)
	for _, ar := range a.areas {
		ar.mount(api)
	}
	return api
}

// Route is one registered endpoint with its full path
type Route struct {
	Area   string
	Method string
	Path   string
}

// Routes lists endpoints in registration order
func (a *API) Routes() []Route {
	var out []Route
	for _, ar := range a.areas {
		out = ar.collect(a.BasePath(), out)
	}
	return out
}

// Area groups the endpoints of one part of the API
type Area struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	endpoints  []endpoint
	children   []*Area
}

type endpoint struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func (ar *Area) Name() string { return ar.name }

// Use adds middleware for this area and its children
func (ar *Area) Use(mw ...gin.HandlerFunc) *Area {
	ar.middleware = append(ar.middleware, mw...)
	return ar
}

func (ar *Area) GET(p string, h ...gin.HandlerFunc) *Area { return ar.add(http.MethodGet, p, h) }
func (ar *Area) PUT(p string, h ...gin.HandlerFunc) *Area { return ar.add(http.MethodPut, p, h) }

func (ar *Area) add(method, p string, h []gin.HandlerFunc) *Area {
	ar.endpoints = append(ar.endpoints, endpoint{method: method, path: p, handlers: h})
	return ar
}

// Area nests a child under this prefix
func (ar *Area) Area(name, prefix string) *Area {
	child := &Area{name: name, prefix: prefix}
	ar.children = append(ar.children, child)
	return child
}

func (ar *Area) mount(parent *gin.RouterGroup) {
	g := parent.Group(ar.prefix, ar.middleware...)
	for _, e := range ar.endpoints {
		g.Handle(e.method, e.path, e.handlers...)
	}
	for _, child := range ar.children {
		child.mount(g)
	}
}

func (ar *Area) collect(base string, out []Route) []Route {
	base = path.Join(base, ar.prefix)
	for _, e := range ar.endpoints {
		out = append(out, Route{Area: ar.name, Method: e.method, Path: path.Join(base, e.path)})
	}
	for _, child := range ar.children {
		out = child.collect(base, out)
	}
	return out
}
